package flatkey

import (
	"errors"
	"fmt"
	"strings"
)

var ErrConflict = errors.New("flatkey: leaf and branch collide")

// ConflictError reports a path that is a leaf in one place and a branch in
// another.
type ConflictError struct {
	Path Combination
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v at %q", ErrConflict, strings.Join(e.Path, " > "))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Tree is the associative form of a flat key space: every level maps tokens
// to either a value (leaf) or a deeper Tree (branch). Children keep the order
// in which they were first inserted.
type Tree[V any] struct {
	order []string
	kids  map[string]*Tree[V]
	val   V
	leaf  bool
}

// NewTree returns an empty branch.
func NewTree[V any]() *Tree[V] {
	return &Tree[V]{}
}

// Leaf returns a leaf holding val.
func Leaf[V any](val V) *Tree[V] {
	return &Tree[V]{val: val, leaf: true}
}

func (t *Tree[V]) IsLeaf() bool {
	return t.leaf
}

// Value returns the leaf value. ok is false for branches.
func (t *Tree[V]) Value() (val V, ok bool) {
	if !t.leaf {
		return
	}
	return t.val, true
}

// Len returns the number of direct children of a branch.
func (t *Tree[V]) Len() int {
	return len(t.order)
}

// Keys returns the child tokens in insertion order.
func (t *Tree[V]) Keys() []string {
	keys := make([]string, len(t.order))
	copy(keys, t.order)
	return keys
}

// Child returns the subtree under token.
func (t *Tree[V]) Child(token string) (*Tree[V], bool) {
	sub, ok := t.kids[token]
	return sub, ok
}

// Put attaches sub under token, replacing whatever was there but keeping the
// token's position. Put on a leaf turns it into a branch.
func (t *Tree[V]) Put(token string, sub *Tree[V]) *Tree[V] {
	if t.leaf {
		var zero V
		t.leaf, t.val = false, zero
	}
	if t.kids == nil {
		t.kids = make(map[string]*Tree[V])
	}
	if _, ok := t.kids[token]; !ok {
		t.order = append(t.order, token)
	}
	t.kids[token] = sub
	return t
}

// Lookup descends along path.
func (t *Tree[V]) Lookup(path Combination) (*Tree[V], bool) {
	cur := t
	for _, token := range path {
		next, ok := cur.kids[token]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Insert stores val at path, creating branches on the way. Storing over an
// existing leaf replaces its value; a path that runs through a leaf or ends
// on a branch is a *ConflictError and leaves the tree untouched.
func (t *Tree[V]) Insert(path Combination, val V) error {
	if len(path) == 0 {
		return &ConflictError{Path: Combination{}}
	}
	// validate first so a conflict never leaves half-built branches behind
	cur := t
	for i, token := range path {
		next, ok := cur.kids[token]
		if !ok {
			break
		}
		last := i == len(path)-1
		if next.leaf != last {
			return &ConflictError{Path: path[:i+1].Clone()}
		}
		cur = next
	}

	cur = t
	for _, token := range path[:len(path)-1] {
		next, ok := cur.kids[token]
		if !ok {
			next = NewTree[V]()
			cur.Put(token, next)
		}
		cur = next
	}
	last := path[len(path)-1]
	if leaf, ok := cur.kids[last]; ok {
		leaf.val = val
		return nil
	}
	cur.Put(last, Leaf(val))
	return nil
}

// Walk calls fn for every leaf, depth first in insertion order, with the path
// leading to it. It returns false if fn aborted the walk.
func (t *Tree[V]) Walk(fn func(Combination, V) bool) bool {
	if t.leaf {
		return fn(Combination{}, t.val)
	}
	return t.walk(make(Combination, 0, 8), fn)
}

func (t *Tree[V]) walk(path Combination, fn func(Combination, V) bool) bool {
	for _, token := range t.order {
		sub := t.kids[token]
		next := append(path, token)
		if sub.leaf {
			if !fn(next.Clone(), sub.val) {
				return false
			}
			continue
		}
		if !sub.walk(next, fn) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (t *Tree[V]) Clone() *Tree[V] {
	if t.leaf {
		return Leaf(t.val)
	}
	out := &Tree[V]{order: make([]string, len(t.order))}
	copy(out.order, t.order)
	if t.kids != nil {
		out.kids = make(map[string]*Tree[V], len(t.kids))
		for token, sub := range t.kids {
			out.kids[token] = sub.Clone()
		}
	}
	return out
}

// Merge folds src into a copy of dst. Leaves present in both take the src
// value; a leaf meeting a branch at the same path is a *ConflictError.
// Neither argument is modified.
func Merge[V any](dst, src *Tree[V]) (*Tree[V], error) {
	out := dst.Clone()
	if err := merge(out, src, Combination{}); err != nil {
		return nil, err
	}
	return out, nil
}

func merge[V any](dst, src *Tree[V], path Combination) error {
	for _, token := range src.order {
		from := src.kids[token]
		at := append(path[:len(path):len(path)], token)

		to, ok := dst.kids[token]
		switch {
		case !ok:
			dst.Put(token, from.Clone())
		case to.leaf && from.leaf:
			to.val = from.val
		case to.leaf != from.leaf:
			return &ConflictError{Path: at}
		default:
			if err := merge(to, from, at); err != nil {
				return err
			}
		}
	}
	return nil
}
