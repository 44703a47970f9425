package flatkey

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var ErrInvalidJSON = errors.New("flatkey: invalid JSON")

// MarshalJSON writes branches as objects with keys in insertion order and
// leaves as their JSON-encoded value.
func (t *Tree[V]) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ordered())
}

// ordered converts the tree into nested ordered maps, the leaves kept as
// plain values.
func (t *Tree[V]) ordered() any {
	if t.leaf {
		return t.val
	}
	obj := orderedmap.New[string, any]()
	for _, token := range t.order {
		obj.Set(token, t.kids[token].ordered())
	}
	return obj
}

// UnmarshalJSON reads a JSON object into the tree. Nested objects become
// branches, every other JSON value is decoded into V as a leaf. Members are
// kept in document order; a repeated member replaces the earlier one.
func (t *Tree[V]) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return ErrInvalidJSON
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return ErrInvalidJSON
	}
	out, err := treeFromJSON[V](doc)
	if err != nil {
		return err
	}
	*t = *out
	return nil
}

func treeFromJSON[V any](obj gjson.Result) (*Tree[V], error) {
	tree := NewTree[V]()
	var err error
	obj.ForEach(func(key, value gjson.Result) bool {
		if value.IsObject() {
			var sub *Tree[V]
			if sub, err = treeFromJSON[V](value); err != nil {
				return false
			}
			tree.Put(key.String(), sub)
			return true
		}
		var val V
		if err = json.Unmarshal([]byte(value.Raw), &val); err != nil {
			return false
		}
		tree.Put(key.String(), Leaf(val))
		return true
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}
