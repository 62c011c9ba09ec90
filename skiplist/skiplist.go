// Package skiplist is a small ordered set used as a reference model for the
// B+ tree: it gets to the same answers by a completely different route.
package skiplist

import (
	"cmp"
	"math"
	"math/rand"
)

const (
	MaxHeight = 16
	p         = 0.5
)

var probabilities [MaxHeight]uint32

type node[K cmp.Ordered] struct {
	key   K
	tower [MaxHeight]*node[K]
}

type SkipList[K cmp.Ordered] struct {
	head   *node[K] // starting head node
	height int      // current height
	length int
	rnd    *rand.Rand
}

func init() {
	probability := 1.0

	for level := 0; level < MaxHeight; level++ {
		probabilities[level] = uint32(probability * float64(math.MaxUint32))
		probability *= p
	}
}

func (sl *SkipList[K]) randomHeight() int {
	seed := sl.rnd.Uint32()

	height := 1
	for height < MaxHeight && seed <= probabilities[height] {
		height++
	}

	return height
}

// New returns an empty skip list. Tower heights are drawn from seed, so two
// lists built with the same seed and operations are identical.
func New[K cmp.Ordered](seed int64) *SkipList[K] {
	return &SkipList[K]{
		head:   &node[K]{},
		height: 1,
		rnd:    rand.New(rand.NewSource(seed)),
	}
}

func (sl *SkipList[K]) search(key K) (*node[K], [MaxHeight]*node[K]) {
	var next *node[K]
	var journey [MaxHeight]*node[K]

	prev := sl.head
	// top to bottom level
	for level := sl.height - 1; level >= 0; level-- {
		for next = prev.tower[level]; next != nil; next = prev.tower[level] {
			// key <= next.key
			if key <= next.key {
				break
			}
			prev = next
		}
		journey[level] = prev
	}

	if next != nil && next.key == key {
		return next, journey
	}
	return nil, journey
}

func (sl *SkipList[K]) Contains(key K) bool {
	n, _ := sl.search(key)
	return n != nil
}

// Insert adds key and reports whether it was not already present.
func (sl *SkipList[K]) Insert(key K) bool {
	n, journey := sl.search(key)
	if n != nil {
		return false
	}

	height := sl.randomHeight()
	newNode := &node[K]{key: key}

	//bottom to top level
	for level := 0; level < height; level++ {
		prev := journey[level]
		if prev == nil {
			// prev is nil if we extend the height of the list,
			// journey won't have an entry for it.
			prev = sl.head
		}
		newNode.tower[level] = prev.tower[level]
		prev.tower[level] = newNode
	}

	if height > sl.height {
		sl.height = height
	}
	sl.length++
	return true
}

func (sl *SkipList[K]) shrink() {
	for level := sl.height - 1; level > 0; level-- {
		if sl.head.tower[level] == nil {
			sl.height--
		} else {
			break
		}
	}
}

// Delete removes key and reports whether it was present.
func (sl *SkipList[K]) Delete(key K) bool {
	n, journey := sl.search(key)
	if n == nil {
		return false
	}

	for level := 0; level < sl.height; level++ {
		prev := journey[level]
		if prev.tower[level] != n {
			break
		}
		prev.tower[level] = n.tower[level]
		n.tower[level] = nil
	}

	// the removed node may have been the only one on the upper levels
	sl.shrink()
	sl.length--
	return true
}

// Keys walks level 0 and returns every key in ascending order.
func (sl *SkipList[K]) Keys() []K {
	keys := make([]K, 0, sl.length)
	for n := sl.head.tower[0]; n != nil; n = n.tower[0] {
		keys = append(keys, n.key)
	}
	return keys
}

func (sl *SkipList[K]) Len() int {
	return sl.length
}
