package btree

import (
	"cmp"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

/*
Tree is a B+ tree over ordered keys. It only keeps the handle of the root,
every node lives in the arena.
Keys are unique: inserting a key that is already present is a no-op.
A Tree is not safe for concurrent use.
*/
type Tree[K cmp.Ordered] struct {
	nodes  *arena[K]
	root   handle
	bounds bounds
	length int
	log    logrus.FieldLogger
	check  bool
}

// New returns an empty tree whose internal nodes hold at most order children.
func New[K cmp.Ordered](order int, opts ...Option) (*Tree[K], error) {
	if order < minOrder {
		return nil, errors.Wrapf(ErrInvalidOrder, "order %d is below %d", order, minOrder)
	}
	o := options{logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	t := &Tree[K]{
		nodes:  newArena[K](),
		bounds: newBounds(order),
		log:    o.logger.WithField("order", order),
		check:  o.check,
	}
	t.root = t.nodes.alloc(true)
	return t, nil
}

// Order returns the max number of children of an internal node.
func (t *Tree[K]) Order() int { return t.bounds.order }

// Len returns the number of keys in the tree.
func (t *Tree[K]) Len() int { return t.length }

// Nodes returns the number of live nodes.
func (t *Tree[K]) Nodes() int { return t.nodes.live() }

// Height returns the number of levels, 1 for a tree whose root is a leaf.
func (t *Tree[K]) Height() int {
	h := 1
	for n := t.node(t.root); !n.leaf; n = t.node(n.children[0]) {
		h++
	}
	return h
}

func (t *Tree[K]) node(h handle) *node[K] {
	return t.nodes.node(h)
}

// search descends from the root to the leaf that owns key.
func (t *Tree[K]) search(key K) handle {
	h := t.root
	for n := t.node(h); !n.leaf; n = t.node(h) {
		h = n.children[n.route(key)]
	}
	return h
}

// Find reports whether key is in the tree.
func (t *Tree[K]) Find(key K) bool {
	return t.node(t.search(key)).contains(key)
}

/*
Insert adds key to the tree and reports whether it was added.
The key always lands in a leaf. If the leaf overflows it is split and the
split propagates upward for as long as parents overflow.
*/
func (t *Tree[K]) Insert(key K) bool {
	h := t.search(key)
	leaf := t.node(h)
	if leaf.contains(key) {
		return false
	}
	leaf.insertSorted(key)
	t.length++
	if leaf.overflow(t.bounds) {
		t.splitLeaf(h)
	}
	t.verify("insert")
	return true
}

/*
splitLeaf moves the upper half of the leaf into a new right sibling.
The first key of the right leaf is copied up as the separator and stays in the
leaf, so the leaf level still holds every key.
*/
func (t *Tree[K]) splitLeaf(h handle) {
	rh := t.nodes.alloc(true)
	left, right := t.node(h), t.node(rh)

	mid := (len(left.values) + 1) / 2
	right.values = append(right.values, left.values[mid:]...)
	clear(left.values[mid:])
	left.values = left.values[:mid]

	right.next = left.next
	left.next = rh

	sep := right.values[0]
	t.log.WithFields(logrus.Fields{
		"op":        "split-leaf",
		"node":      h,
		"left":      left.values,
		"right":     right.values,
		"separator": sep,
	}).Debug("leaf overflow")
	t.insertInParent(h, sep, rh)
}

/*
splitInternal moves the upper half of an internal node into a new right
sibling. The middle separator moves up to the parent and is kept in neither
half.
*/
func (t *Tree[K]) splitInternal(h handle) {
	rh := t.nodes.alloc(false)
	left, right := t.node(h), t.node(rh)

	mid := len(left.values) / 2 // ceil((n-1)/2)
	sep := left.values[mid]

	right.values = append(right.values, left.values[mid+1:]...)
	right.children = append(right.children, left.children[mid+1:]...)
	clear(left.values[mid:])
	left.values = left.values[:mid]
	left.children = left.children[:mid+1]

	for _, c := range right.children {
		t.node(c).parent = rh
	}

	t.log.WithFields(logrus.Fields{
		"op":        "split-internal",
		"node":      h,
		"left":      left.values,
		"right":     right.values,
		"separator": sep,
	}).Debug("internal overflow")
	t.insertInParent(h, sep, rh)
}

// insertInParent links the new right sibling rh of h into h's parent under
// separator key, growing a new root when h was the root.
func (t *Tree[K]) insertInParent(h handle, key K, rh handle) {
	n := t.node(h)
	if n.parent == nilHandle {
		t.growRoot(h, key, rh)
		return
	}

	ph := n.parent
	parent := t.node(ph)
	i := parent.childIndex(h)
	parent.values = slices.Insert(parent.values, i, key)
	parent.children = slices.Insert(parent.children, i+1, rh)
	t.node(rh).parent = ph

	if parent.overflow(t.bounds) {
		t.splitInternal(ph)
	}
}

func (t *Tree[K]) growRoot(h handle, key K, rh handle) {
	nr := t.nodes.alloc(false)
	root := t.node(nr)
	root.values = append(root.values, key)
	root.children = append(root.children, h, rh)
	t.node(h).parent = nr
	t.node(rh).parent = nr
	t.root = nr
	t.log.WithFields(logrus.Fields{
		"op":        "grow-root",
		"node":      nr,
		"separator": key,
	}).Debug("new root")
}

// verify runs the full invariant check when enabled and fails fast.
func (t *Tree[K]) verify(op string) {
	if !t.check {
		return
	}
	if err := t.Verify(); err != nil {
		panic(errors.Wrapf(err, "after %s", op))
	}
}
