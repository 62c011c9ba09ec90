package btree

import (
	"cmp"

	"github.com/cockroachdb/errors"
)

type checker[K cmp.Ordered] struct {
	t         *Tree[K]
	leafDepth int
	leaves    []handle
	keys      int
}

/*
Verify walks the whole tree and returns an assertion failure describing the
first broken invariant:
  - all leaves at the same depth
  - keys ascending in every node and inside the range routed by the parent
  - children count is values count + 1 in internal nodes
  - occupancy bounds on every node but the root
  - parent handles point back at the node holding the child
  - the leaf chain visits the leaves in order, exactly once
*/
func (t *Tree[K]) Verify() error {
	root, ok := t.nodes.lookup(t.root)
	if !ok {
		return errors.AssertionFailedf("root handle %d is not live", t.root)
	}
	if root.parent != nilHandle {
		return errors.AssertionFailedf("root %d has parent %d", t.root, root.parent)
	}
	c := &checker[K]{t: t, leafDepth: -1}
	if err := c.walk(t.root, 0, nil, nil); err != nil {
		return err
	}
	if c.keys != t.length {
		return errors.AssertionFailedf("tree holds %d keys, expected %d", c.keys, t.length)
	}
	return c.chain()
}

func (c *checker[K]) walk(h handle, depth int, lo, hi *K) error {
	n, ok := c.t.nodes.lookup(h)
	if !ok {
		return errors.AssertionFailedf("dangling child handle %d", h)
	}
	b := c.t.bounds

	for i, v := range n.values {
		if i > 0 && n.values[i-1] >= v {
			return errors.AssertionFailedf("node %d: keys out of order at %d", h, i)
		}
		if lo != nil && v < *lo {
			return errors.AssertionFailedf("node %d: key %v below separator %v", h, v, *lo)
		}
		if hi != nil && v >= *hi {
			return errors.AssertionFailedf("node %d: key %v not below separator %v", h, v, *hi)
		}
	}

	if h != c.t.root {
		if n.underflow(b) || n.overflow(b) {
			return errors.AssertionFailedf("node %d: occupancy %d values, %d children out of bounds",
				h, len(n.values), len(n.children))
		}
	} else if n.overflow(b) || (!n.leaf && len(n.children) < 2) {
		return errors.AssertionFailedf("root %d: occupancy %d values, %d children out of bounds",
			h, len(n.values), len(n.children))
	}

	if n.leaf {
		if len(n.children) != 0 {
			return errors.AssertionFailedf("leaf %d has %d children", h, len(n.children))
		}
		if c.leafDepth < 0 {
			c.leafDepth = depth
		} else if c.leafDepth != depth {
			return errors.AssertionFailedf("leaf %d at depth %d, expected %d", h, depth, c.leafDepth)
		}
		c.leaves = append(c.leaves, h)
		c.keys += len(n.values)
		return nil
	}

	if len(n.children) != len(n.values)+1 {
		return errors.AssertionFailedf("node %d: %d children for %d values", h, len(n.children), len(n.values))
	}
	for i, ch := range n.children {
		child, ok := c.t.nodes.lookup(ch)
		if !ok {
			return errors.AssertionFailedf("node %d: dangling child handle %d", h, ch)
		}
		if child.parent != h {
			return errors.AssertionFailedf("node %d: child %d points at parent %d", h, ch, child.parent)
		}
		clo, chi := lo, hi
		if i > 0 {
			clo = &n.values[i-1]
		}
		if i < len(n.values) {
			chi = &n.values[i]
		}
		if err := c.walk(ch, depth+1, clo, chi); err != nil {
			return err
		}
	}
	return nil
}

// chain follows next links from the leftmost leaf and compares them with the
// in-order leaves found by walk.
func (c *checker[K]) chain() error {
	h := c.leaves[0]
	for i, want := range c.leaves {
		if h != want {
			return errors.AssertionFailedf("leaf chain step %d is %d, expected %d", i, h, want)
		}
		h = c.t.node(h).next
	}
	if h != nilHandle {
		return errors.AssertionFailedf("leaf chain continues past the last leaf into %d", h)
	}
	return nil
}
