package btree

import (
	"cmp"
	"slices"

	"github.com/cockroachdb/errors"
)

/*
A node is either a leaf or an internal node.
Internal nodes route by separator keys: children[i] holds keys < values[i],
children[i+1] holds keys >= values[i].
Leaves hold the live keys and are chained left to right through next.
parent and next are plain handles, only children own nodes.
*/
type node[K cmp.Ordered] struct {
	leaf     bool
	values   []K
	children []handle
	next     handle
	parent   handle
}

func (n *node[K]) reset(leaf bool) {
	clear(n.values)
	n.leaf = leaf
	n.values = n.values[:0]
	n.children = n.children[:0]
	n.next = nilHandle
	n.parent = nilHandle
}

// insert key after any equal keys so the order stays ascending.
func (n *node[K]) insertSorted(key K) {
	pos, _ := slices.BinarySearch(n.values, key)
	for pos < len(n.values) && n.values[pos] == key {
		pos++
	}
	n.values = slices.Insert(n.values, pos, key)
}

// removes the first entry equal to key. No-op if key is absent.
func (n *node[K]) removeKey(key K) bool {
	pos, found := slices.BinarySearch(n.values, key)
	if !found {
		return false
	}
	n.values = slices.Delete(n.values, pos, pos+1)
	return true
}

func (n *node[K]) contains(key K) bool {
	_, found := slices.BinarySearch(n.values, key)
	return found
}

// route returns the index of the child that owns key.
// A key equal to a separator goes to the right-hand subtree.
func (n *node[K]) route(key K) int {
	i := 0
	for i < len(n.values) && key >= n.values[i] {
		i++
	}
	return i
}

// childIndex returns the position of h in children. A missing child means the
// parent links are corrupt.
func (n *node[K]) childIndex(h handle) int {
	i := slices.Index(n.children, h)
	if i < 0 {
		panic(errors.AssertionFailedf("node %d is not a child of its parent", h))
	}
	return i
}

func (n *node[K]) underflow(b bounds) bool {
	if n.leaf {
		return len(n.values) < b.minValues
	}
	return len(n.children) < b.minChildren
}

func (n *node[K]) overflow(b bounds) bool {
	if n.leaf {
		return len(n.values) > b.maxValues
	}
	return len(n.children) > b.maxChildren
}

// surplus reports whether the node can give one entry to a sibling and stay legal.
func (n *node[K]) surplus(b bounds) bool {
	if n.leaf {
		return len(n.values) > b.minValues
	}
	return len(n.children) > b.minChildren
}
