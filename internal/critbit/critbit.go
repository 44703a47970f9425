// Package critbit is a crit-bit tree mapping flat keys to the sequence
// number they were first stored under. The combination map uses it as a
// sorted prefix index.
//
// Bytes are compared as 9-bit symbols: a present byte b is 0x100|b and a
// position past the end of a key is 0. That makes "a" and "a\x00" differ
// and sorts every key before its extensions.
package critbit

import (
	"fmt"
	"math/bits"
)

type Item struct {
	Key string
	Seq uint64
}

// Ref holds either an Item or a Node pointer
type Ref struct {
	Item
	node *Node
}

func (ref *Ref) String() string {
	if ref == nil {
		return "Ref(nil)"
	}
	if ref.node != nil {
		return fmt.Sprintf("<Ref NODE off=%v, mask=%09b>", ref.node.off, ref.node.bit)
	}
	return fmt.Sprintf("<Ref LEAF key=%q, seq=%v>", ref.Key, ref.Seq)
}

type Node struct {
	child [2]Ref
	// off is the offset of the differing byte
	off int
	// bit contains the single crit bit of the differing symbol
	bit uint16
}

type Tree struct {
	size int
	root Ref
}

// symbol returns the 9-bit symbol of key at off
func symbol(key string, off int) uint16 {
	if off < len(key) {
		return 0x100 | uint16(key[off])
	}
	return 0
}

// dir calculates the direction for the given key
func (n *Node) dir(key string) byte {
	if symbol(key, n.off)&n.bit != 0 {
		return 1
	}
	return 0
}

func New(items ...Item) *Tree {
	t := &Tree{}
	for _, item := range items {
		t.Set(item.Key, item.Seq)
	}
	return t
}

// Len returns the number of keys in the tree.
func (t *Tree) Len() int {
	return t.size
}

func (t *Tree) Empty() bool {
	return t.size == 0
}

// Get returns the sequence number stored for key
func (t *Tree) Get(key string) (seq uint64, ok bool) {
	if t.Empty() {
		return
	}
	// walk for best member
	p := t.root
	for p.node != nil {
		p = p.node.child[p.node.dir(key)]
	}
	if p.Key != key {
		return
	}
	return p.Seq, true
}

// Set associates seq with key. Returns the previous sequence number (if any).
func (t *Tree) Set(key string, seq uint64) (prev uint64, ok bool) {
	if t.Empty() {
		t.root = Ref{Item: Item{key, seq}}
		t.size++
		return
	}
	// walk for best member
	p := &t.root
	for p.node != nil {
		p = &p.node.child[p.node.dir(key)]
	}
	// find the differing symbol
	var (
		off  int
		diff uint16
		end  = len(key)
	)
	if len(p.Key) > end {
		end = len(p.Key)
	}
	for ; off <= end; off++ {
		if diff = symbol(key, off) ^ symbol(p.Key, off); diff != 0 {
			break
		}
	}
	if diff == 0 {
		// key exists - just replace its seq
		prev, p.Seq = p.Seq, seq
		return prev, true
	}
	// keep the highest differing bit only
	bit := uint16(1) << (bits.Len16(diff) - 1)
	var ndir byte
	if symbol(p.Key, off)&bit != 0 {
		ndir = 1
	}
	// insert new node
	nn := &Node{off: off, bit: bit}
	nn.child[1-ndir].Item = Item{key, seq}

	// walk for best insertion node
	wp := &t.root
	for wp.node != nil {
		n := wp.node
		if n.off > off || n.off == off && n.bit < bit {
			break
		}
		wp = &n.child[n.dir(key)]
	}
	nn.child[ndir] = *wp
	*wp = Ref{node: nn}
	t.size++

	return
}

// Del removes the key from the tree and returns its sequence number (if any)
func (t *Tree) Del(key string) (seq uint64, ok bool) {
	if t.Empty() {
		return
	}
	// walk for best member
	var (
		dir byte
		wp  *Ref
		p   = &t.root
	)
	for p.node != nil {
		wp = p
		dir = p.node.dir(key)
		p = &p.node.child[dir]
	}
	if p.Key != key {
		return
	}
	seq, ok = p.Seq, true
	t.size--
	if wp == nil {
		t.root = Ref{}
		return
	}
	*wp = wp.node.child[1-dir]
	return
}

// Iter calls a handler for all keys with a given prefix, in sorted order.
// It returns whether all prefixed keys were iterated.
// The handler can continue the process by returning true or abort with false.
func (t *Tree) Iter(prefix string, handler func(Item) bool) bool {
	if t.Empty() {
		return true
	}
	// shortcut for empty prefix
	if prefix == "" {
		return iterate(t.root, handler)
	}
	// walk for best member
	p, top := t.root, t.root
	for p.node != nil {
		newtop := p.node.off < len(prefix)
		p = p.node.child[p.node.dir(prefix)]
		if newtop {
			top = p
		}
	}
	if len(p.Key) < len(prefix) || p.Key[:len(prefix)] != prefix {
		return true
	}
	return iterate(top, handler)
}

// iterate calls the key handler or traverses both node children unless aborted.
func iterate(p Ref, h func(Item) bool) bool {
	if p.node != nil {
		return iterate(p.node.child[0], h) && iterate(p.node.child[1], h)
	}
	return h(p.Item)
}
