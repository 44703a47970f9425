// Package veb is a set of uint64 sequence numbers stored as a fixed-depth
// 256-ary tree of bitmaps. Members are visited in ascending order, which
// the combination map uses to put index hits back into insertion order.
package veb

import (
	"math/bits"

	"github.com/hideo55/go-popcount"
)

const levels = 8

type Set struct {
	root *Node
	size uint64
}

type Node struct {
	bitmap   [4]uint64 // 256 bits representing 2**8 entries
	children []*Node
}

func NewSet(vals ...uint64) *Set {
	s := &Set{root: &Node{}}
	for _, val := range vals {
		s.Add(val)
	}
	return s
}

func (s *Set) Len() uint64 {
	if s == nil {
		return 0
	}
	return s.size
}

// rank returns the child index of byte idx in node
func (n *Node) rank(idx byte) uint64 {
	ofs := idx >> 6
	cnt := popcount.Count(n.bitmap[ofs] & ((1 << (idx & 0x3F)) - 1))
	for j := byte(0); j < ofs; j++ {
		cnt += popcount.Count(n.bitmap[j])
	}
	return cnt
}

func (n *Node) has(idx byte) bool {
	return (n.bitmap[idx>>6]>>(idx&0x3F))&0x01 != 0
}

func (s *Set) Has(val uint64) bool {
	if s == nil {
		return false
	}
	node := s.root
	for i := 0; i < levels; i++ {
		idx := byte(val >> (8 * (levels - 1 - i)))
		if !node.has(idx) {
			return false // underlying nodes don't have it
		}
		if i == levels-1 {
			break // this is a leaf
		}
		node = node.children[node.rank(idx)]
	}
	return true
}

// Add inserts val and reports whether it was not there yet.
func (s *Set) Add(val uint64) (add bool) {
	node := s.root
	for i := 0; i < levels; i++ {
		idx := byte(val >> (8 * (levels - 1 - i)))
		add = !node.has(idx)
		cnt := node.rank(idx)
		if add {
			node.bitmap[idx>>6] |= 1 << (idx & 0x3F)
		}
		if i == levels-1 {
			break // this is a leaf
		}
		if add {
			// shift the tail right and put a new child at its rank
			node.children = append(node.children, nil)
			copy(node.children[cnt+1:], node.children[cnt:])
			next := &Node{}
			node.children[cnt] = next
			node = next
		} else {
			node = node.children[cnt]
		}
	}
	if add {
		s.size++
	}
	return
}

// Each calls fn for every member in ascending order until fn returns false.
func (s *Set) Each(fn func(uint64) bool) bool {
	if s == nil {
		return true
	}
	return s.root.each(0, 0, fn)
}

func (n *Node) each(level int, prefix uint64, fn func(uint64) bool) bool {
	var k int
	for ofs := 0; ofs < 4; ofs++ {
		for bmp := n.bitmap[ofs]; bmp != 0; bmp &= bmp - 1 {
			low := uint64(bits.TrailingZeros64(bmp))
			val := prefix<<8 | uint64(ofs)<<6 | low
			if level == levels-1 {
				if !fn(val) {
					return false
				}
				continue
			}
			if !n.children[k].each(level+1, val, fn) {
				return false
			}
			k++
		}
	}
	return true
}
