package btree

import (
	"cmp"

	"github.com/cockroachdb/errors"
)

// handle is a stable reference to a node in the arena.
type handle int32

const nilHandle handle = -1

/*
arena owns every node of a tree. Nodes are addressed by handle so parent and
next links never dangle into freed memory: a released handle is parked on the
free list and handed out again by the next alloc.
*/
type arena[K cmp.Ordered] struct {
	nodes []*node[K]
	freed []bool
	free  []handle
}

func newArena[K cmp.Ordered]() *arena[K] {
	return &arena[K]{}
}

func (a *arena[K]) alloc(leaf bool) handle {
	if last := len(a.free) - 1; last >= 0 {
		h := a.free[last]
		a.free = a.free[:last]
		a.freed[h] = false
		a.nodes[h].reset(leaf)
		return h
	}
	n := &node[K]{}
	n.reset(leaf)
	a.nodes = append(a.nodes, n)
	a.freed = append(a.freed, false)
	return handle(len(a.nodes) - 1)
}

func (a *arena[K]) release(h handle) {
	n := a.node(h)
	n.reset(n.leaf)
	a.freed[h] = true
	a.free = append(a.free, h)
}

func (a *arena[K]) node(h handle) *node[K] {
	n, ok := a.lookup(h)
	if !ok {
		panic(errors.AssertionFailedf("dangling node handle %d", h))
	}
	return n
}

func (a *arena[K]) lookup(h handle) (*node[K], bool) {
	if h < 0 || int(h) >= len(a.nodes) || a.freed[h] {
		return nil, false
	}
	return a.nodes[h], true
}

// live is the number of nodes currently in use.
func (a *arena[K]) live() int {
	return len(a.nodes) - len(a.free)
}
