package btree

import "cmp"

// NodeView is a read-only copy of one node, as listed by Snapshot.
type NodeView[K cmp.Ordered] struct {
	Level int // depth from the root, the root is level 0
	Leaf  bool
	Keys  []K
}

/*
Snapshot lists every node breadth first, left to right within a level.
The key slices are copies, so callers may keep or mutate them freely.
This is what renderers consume; nothing else about the structure is exported.
*/
func (t *Tree[K]) Snapshot() []NodeView[K] {
	type entry struct {
		h     handle
		level int
	}
	var views []NodeView[K]
	queue := []entry{{t.root, 0}}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		n := t.node(e.h)
		views = append(views, NodeView[K]{
			Level: e.level,
			Leaf:  n.leaf,
			Keys:  append([]K(nil), n.values...),
		})
		for _, c := range n.children {
			queue = append(queue, entry{c, e.level + 1})
		}
	}
	return views
}

// firstLeaf follows the leftmost children down to the head of the leaf chain.
func (t *Tree[K]) firstLeaf() handle {
	h := t.root
	for n := t.node(h); !n.leaf; n = t.node(h) {
		h = n.children[0]
	}
	return h
}

// keys scans the leaf chain and returns every key in order.
func (t *Tree[K]) keys() []K {
	out := make([]K, 0, t.length)
	for h := t.firstLeaf(); h != nilHandle; h = t.node(h).next {
		out = append(out, t.node(h).values...)
	}
	return out
}
