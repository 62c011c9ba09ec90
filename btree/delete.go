package btree

import (
	"slices"

	"github.com/sirupsen/logrus"
)

/*
Delete removes key from the tree and reports whether it was present.
A missing key leaves the structure untouched.
If the leaf drops below its minimum it borrows from a sibling, or merges with
one when neither sibling can spare an entry. Merges may underflow the parent,
so the fix walks upward until the tree is legal again.
*/
func (t *Tree[K]) Delete(key K) bool {
	h := t.search(key)
	leaf := t.node(h)
	if !leaf.removeKey(key) {
		return false
	}
	t.length--
	if leaf.underflow(t.bounds) {
		t.fixNode(h)
	}
	t.verify("delete")
	return true
}

func (t *Tree[K]) fixNode(h handle) {
	n := t.node(h)
	if h == t.root {
		// the root has no minimum, it only goes away when it routes to a single child
		if !n.leaf && len(n.values) == 0 && len(n.children) == 1 {
			t.collapseRoot()
		}
		return
	}

	parent := t.node(n.parent)
	index := parent.childIndex(h)

	left, right := nilHandle, nilHandle
	if index > 0 {
		left = parent.children[index-1]
	}
	if index < len(parent.children)-1 {
		right = parent.children[index+1]
	}

	switch {
	case left != nilHandle && t.node(left).surplus(t.bounds):
		t.redistribute(left, h)
	case right != nilHandle && t.node(right).surplus(t.bounds):
		t.redistribute(h, right)
	case left != nilHandle:
		t.merge(left, h)
	case right != nilHandle:
		t.merge(h, right)
	}
}

func (t *Tree[K]) collapseRoot() {
	old := t.root
	t.root = t.node(old).children[0]
	t.node(t.root).parent = nilHandle
	t.nodes.release(old)
	t.log.WithFields(logrus.Fields{
		"op":   "collapse-root",
		"node": old,
		"root": t.root,
	}).Debug("root collapsed")
}

/*
redistribute moves one entry across the boundary between two adjacent
siblings, from the side holding more to the other, and fixes the separator
between them in the parent.

Leaves move a key and the separator becomes the first key of the right leaf.
Internal nodes rotate through the parent: the separator comes down into the
poorer node, the boundary child of the richer node crosses over with it, and
the richer node's boundary key goes up as the new separator.
*/
func (t *Tree[K]) redistribute(lh, rh handle) {
	left, right := t.node(lh), t.node(rh)
	parent := t.node(right.parent)
	index := parent.childIndex(rh)
	sep := index - 1
	fromLeft := len(left.values) > len(right.values)

	switch {
	case left.leaf && fromLeft:
		last := len(left.values) - 1
		right.values = slices.Insert(right.values, 0, left.values[last])
		left.values = left.values[:last]
		parent.values[sep] = right.values[0]
	case left.leaf:
		left.values = append(left.values, right.values[0])
		right.values = slices.Delete(right.values, 0, 1)
		parent.values[sep] = right.values[0]
	case fromLeft:
		lastKey, lastChild := len(left.values)-1, len(left.children)-1
		moved := left.children[lastChild]
		right.values = slices.Insert(right.values, 0, parent.values[sep])
		right.children = slices.Insert(right.children, 0, moved)
		parent.values[sep] = left.values[lastKey]
		left.values = left.values[:lastKey]
		left.children = left.children[:lastChild]
		t.node(moved).parent = rh
	default:
		moved := right.children[0]
		left.values = append(left.values, parent.values[sep])
		left.children = append(left.children, moved)
		parent.values[sep] = right.values[0]
		right.values = slices.Delete(right.values, 0, 1)
		right.children = slices.Delete(right.children, 0, 1)
		t.node(moved).parent = lh
	}

	t.log.WithFields(logrus.Fields{
		"op":        "redistribute",
		"leaf":      left.leaf,
		"from_left": fromLeft,
		"left":      left.values,
		"right":     right.values,
		"separator": parent.values[sep],
	}).Debug("borrowed from sibling")
}

/*
merge folds rh into its left sibling lh and drops rh from the parent.
Internal nodes pull the separator down between the two key runs so every
child keeps a routing key, and every absorbed child is reparented.
*/
func (t *Tree[K]) merge(lh, rh handle) {
	left, right := t.node(lh), t.node(rh)
	ph := left.parent
	parent := t.node(ph)
	index := parent.childIndex(rh)
	sep := parent.values[index-1]

	if left.leaf {
		left.values = append(left.values, right.values...)
		left.next = right.next
	} else {
		left.values = append(left.values, sep)
		left.values = append(left.values, right.values...)
		for _, c := range right.children {
			t.node(c).parent = lh
		}
		left.children = append(left.children, right.children...)
	}

	parent.values = slices.Delete(parent.values, index-1, index)
	parent.children = slices.Delete(parent.children, index, index+1)
	t.nodes.release(rh)

	t.log.WithFields(logrus.Fields{
		"op":        "merge",
		"leaf":      left.leaf,
		"node":      lh,
		"absorbed":  rh,
		"keys":      left.values,
		"separator": sep,
	}).Debug("merged siblings")

	if ph == t.root || parent.underflow(t.bounds) {
		t.fixNode(ph)
	}
}
