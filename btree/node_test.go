package btree

import (
	"slices"
	"testing"
)

func TestNodeInsertSorted(t *testing.T) {
	n := &node[int]{leaf: true}
	for _, k := range []int{20, 5, 10, 30, 1} {
		n.insertSorted(k)
	}
	if want := []int{1, 5, 10, 20, 30}; !slices.Equal(n.values, want) {
		t.Fatalf("values = %v, want %v", n.values, want)
	}
}

func TestNodeRemoveKey(t *testing.T) {
	n := &node[int]{leaf: true, values: []int{1, 5, 10}}
	if n.removeKey(7) {
		t.Fatal("removed a key that is not there")
	}
	if !n.removeKey(5) {
		t.Fatal("could not remove 5")
	}
	if want := []int{1, 10}; !slices.Equal(n.values, want) {
		t.Fatalf("values = %v, want %v", n.values, want)
	}
}

func TestNodeRoute(t *testing.T) {
	n := &node[int]{values: []int{10, 20}, children: []handle{0, 1, 2}}
	tests := []struct {
		key  int
		want int
	}{
		{5, 0},
		{10, 1}, // equal keys go right
		{15, 1},
		{20, 2},
		{99, 2},
	}
	for _, tt := range tests {
		if got := n.route(tt.key); got != tt.want {
			t.Errorf("route(%d) = %d, want %d", tt.key, got, tt.want)
		}
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		order                                          int
		minChildren, maxChildren, minValues, maxValues int
	}{
		{3, 2, 3, 1, 2},
		{4, 2, 4, 2, 3},
		{5, 3, 5, 2, 4},
		{8, 4, 8, 4, 7},
	}
	for _, tt := range tests {
		b := newBounds(tt.order)
		if b.minChildren != tt.minChildren || b.maxChildren != tt.maxChildren ||
			b.minValues != tt.minValues || b.maxValues != tt.maxValues {
			t.Errorf("newBounds(%d) = %+v", tt.order, b)
		}
	}
}

func TestArenaReusesHandles(t *testing.T) {
	a := newArena[int]()
	h1 := a.alloc(true)
	h2 := a.alloc(false)
	a.node(h1).values = append(a.node(h1).values, 1, 2)
	a.release(h1)
	if a.live() != 1 {
		t.Fatalf("live = %d, want 1", a.live())
	}
	if _, ok := a.lookup(h1); ok {
		t.Fatal("released handle is still reachable")
	}
	h3 := a.alloc(false)
	if h3 != h1 {
		t.Fatalf("alloc returned %d, want recycled %d", h3, h1)
	}
	n := a.node(h3)
	if n.leaf || len(n.values) != 0 || n.parent != nilHandle || n.next != nilHandle {
		t.Fatalf("recycled node not reset: %+v", n)
	}
	if h2 == h3 {
		t.Fatal("two live nodes share a handle")
	}
}

func TestArenaDanglingHandlePanics(t *testing.T) {
	a := newArena[int]()
	h := a.alloc(true)
	a.release(h)
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic on a released handle")
		}
	}()
	a.node(h)
}
