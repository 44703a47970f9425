package combmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/pretty"

	"github.com/ttokutake/combination-map/flatkey"
)

// ToTree returns the associative form of m. Combinations that make one path
// both a leaf and a branch, such as {"a"} and {"a", "b"}, fail with a
// *flatkey.ConflictError.
func (m *Map[V]) ToTree() (*flatkey.Tree[V], error) {
	tree := flatkey.NewTree[V]()
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		if err := tree.Insert(m.codec.Decode(pair.Key), pair.Value); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

// ToRows returns every entry as a combination/value row in insertion order.
func (m *Map[V]) ToRows() []flatkey.Row[V] {
	rows := make([]flatkey.Row[V], 0, m.entries.Len())
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		rows = append(rows, flatkey.Row[V]{
			Combination: m.codec.Decode(pair.Key),
			Value:       pair.Value,
		})
	}
	return rows
}

func (m *Map[V]) fromTree(tree *flatkey.Tree[V]) *Map[V] {
	out := m.spawn()
	tree.Walk(func(c Combination, v V) bool {
		out.Set(c, v)
		return true
	})
	return out
}

// Bundle rebuilds m through its tree form, which groups entries sharing a
// prefix together.
func (m *Map[V]) Bundle() (*Map[V], error) {
	tree, err := m.ToTree()
	if err != nil {
		return nil, err
	}
	return m.fromTree(tree), nil
}

// Merge combines m and other at the tree level. Where both hold a value for
// the same combination, other wins. Both maps must use the same delimiter;
// a nil other fails with ErrNilMap.
func (m *Map[V]) Merge(other *Map[V]) (*Map[V], error) {
	if other == nil {
		return nil, ErrNilMap
	}
	if m.Delimiter() != other.Delimiter() {
		return nil, fmt.Errorf("%w: %q and %q", ErrDelimiterMismatch, m.Delimiter(), other.Delimiter())
	}
	dst, err := m.ToTree()
	if err != nil {
		return nil, err
	}
	src, err := other.ToTree()
	if err != nil {
		return nil, err
	}
	merged, err := flatkey.Merge(dst, src)
	if err != nil {
		return nil, err
	}
	return m.fromTree(merged), nil
}

// MarshalJSON encodes the tree form of m.
func (m *Map[V]) MarshalJSON() ([]byte, error) {
	tree, err := m.ToTree()
	if err != nil {
		return nil, err
	}
	return tree.MarshalJSON()
}

// Dump writes the flat keys and values of m as indented JSON.
func (m *Map[V]) Dump(w io.Writer) error {
	raw, err := json.Marshal(m.entries)
	if err != nil {
		return fmt.Errorf("combmap: dump: %w", err)
	}
	_, err = w.Write(pretty.Pretty(raw))
	return err
}

func (m *Map[V]) String() string {
	var buf bytes.Buffer
	if err := m.Dump(&buf); err != nil {
		return fmt.Sprintf("combmap.Map(len=%d, %v)", m.Len(), err)
	}
	return buf.String()
}
