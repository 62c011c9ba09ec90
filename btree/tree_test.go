package btree

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func newTestTree[K cmp.Ordered](t *testing.T, order int) *Tree[K] {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	tree, err := New[K](order, WithLogger(log), WithInvariantChecks(true))
	if err != nil {
		t.Fatalf("New(%d): %v", order, err)
	}
	return tree
}

// layout renders a snapshot as "L0[10 20] L1[5 6 7] ..." for compact comparisons.
func layout[K cmp.Ordered](tree *Tree[K]) string {
	var parts []string
	for _, v := range tree.Snapshot() {
		parts = append(parts, fmt.Sprintf("L%d%v", v.Level, v.Keys))
	}
	return strings.Join(parts, " ")
}

func insertAll[K cmp.Ordered](t *testing.T, tree *Tree[K], keys ...K) {
	t.Helper()
	for _, k := range keys {
		if !tree.Insert(k) {
			t.Fatalf("Insert(%v) = false", k)
		}
		if err := tree.Verify(); err != nil {
			t.Fatalf("after Insert(%v): %v", k, err)
		}
	}
}

func TestNewInvalidOrder(t *testing.T) {
	for _, order := range []int{-1, 0, 1, 2} {
		tree, err := New[int](order)
		if !errors.Is(err, ErrInvalidOrder) {
			t.Errorf("New(%d) error = %v, want ErrInvalidOrder", order, err)
		}
		if tree != nil {
			t.Errorf("New(%d) returned a tree", order)
		}
	}
}

func TestNewEmptyTree(t *testing.T) {
	tree := newTestTree[int](t, 3)
	if tree.Len() != 0 || tree.Height() != 1 || tree.Nodes() != 1 {
		t.Fatalf("len=%d height=%d nodes=%d", tree.Len(), tree.Height(), tree.Nodes())
	}
	if tree.Find(1) {
		t.Fatal("found a key in an empty tree")
	}
	if got := layout(tree); got != "L0[]" {
		t.Fatalf("layout = %q", got)
	}
}

func TestInsertOrderFour(t *testing.T) {
	tree := newTestTree[int](t, 4)
	keys := []int{10, 20, 5, 6, 12, 30, 7, 17}
	insertAll(t, tree, keys...)

	if want := []int{5, 6, 7, 10, 12, 17, 20, 30}; !slices.Equal(tree.keys(), want) {
		t.Fatalf("leaf chain = %v, want %v", tree.keys(), want)
	}
	if got, want := layout(tree), "L0[10 20] L1[5 6 7] L1[10 12 17] L1[20 30]"; got != want {
		t.Fatalf("layout = %q, want %q", got, want)
	}
	root := tree.node(tree.root)
	if root.leaf || len(root.children) < 2 {
		t.Fatalf("root should be internal with at least two children, got %+v", root)
	}
	for _, k := range keys {
		if !tree.Find(k) {
			t.Errorf("Find(%d) = false", k)
		}
	}
	for _, k := range []int{0, 8, 11, 18, 31} {
		if tree.Find(k) {
			t.Errorf("Find(%d) = true", k)
		}
	}
}

func TestInsertSplitsInternalNodes(t *testing.T) {
	tree := newTestTree[int](t, 3)
	insertAll(t, tree, 1, 2, 3, 4, 5, 6, 7)

	want := "L0[5] L1[3] L1[7] L2[1 2] L2[3 4] L2[5 6] L2[7]"
	if got := layout(tree); got != want {
		t.Fatalf("layout = %q, want %q", got, want)
	}
	if tree.Height() != 3 {
		t.Fatalf("height = %d, want 3", tree.Height())
	}
	if tree.Nodes() != 7 {
		t.Fatalf("nodes = %d, want 7", tree.Nodes())
	}
}

func TestInsertDuplicateIsRejected(t *testing.T) {
	tree := newTestTree[int](t, 3)
	insertAll(t, tree, 1, 2, 3, 4, 5)
	before := layout(tree)
	for _, k := range []int{1, 3, 5} {
		if tree.Insert(k) {
			t.Fatalf("Insert(%d) accepted a duplicate", k)
		}
	}
	if got := layout(tree); got != before {
		t.Fatalf("duplicate insert changed the tree: %q -> %q", before, got)
	}
	if tree.Len() != 5 {
		t.Fatalf("len = %d, want 5", tree.Len())
	}
}

func TestInsertStringKeys(t *testing.T) {
	tree := newTestTree[string](t, 5)
	words := []string{"pear", "apple", "fig", "kiwi", "banana", "cherry", "date", "grape", "lime", "mango"}
	insertAll(t, tree, words...)

	sorted := slices.Clone(words)
	slices.Sort(sorted)
	if !slices.Equal(tree.keys(), sorted) {
		t.Fatalf("leaf chain = %v, want %v", tree.keys(), sorted)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	tree := newTestTree[int](t, 4)
	insertAll(t, tree, 1, 2, 3, 4)
	views := tree.Snapshot()
	for _, v := range views {
		for i := range v.Keys {
			v.Keys[i] = -1
		}
	}
	if got := layout(tree); got != "L0[3] L1[1 2] L1[3 4]" {
		t.Fatalf("layout = %q", got)
	}
	if !views[1].Leaf || views[0].Leaf {
		t.Fatalf("leaf flags wrong: %+v", views)
	}
}

func TestVerifyDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(tree *Tree[int])
	}{
		{"keys out of order", func(tree *Tree[int]) {
			leaf := tree.node(tree.firstLeaf())
			leaf.values[0], leaf.values[1] = leaf.values[1], leaf.values[0]
		}},
		{"broken parent link", func(tree *Tree[int]) {
			tree.node(tree.firstLeaf()).parent = nilHandle
		}},
		{"broken leaf chain", func(tree *Tree[int]) {
			tree.node(tree.firstLeaf()).next = nilHandle
		}},
		{"dropped separator", func(tree *Tree[int]) {
			root := tree.node(tree.root)
			root.values = root.values[:len(root.values)-1]
		}},
		{"key outside separator range", func(tree *Tree[int]) {
			leaf := tree.node(tree.firstLeaf())
			leaf.values[len(leaf.values)-1] = 100
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, _ := logtest.NewNullLogger()
			tree, err := New[int](4, WithLogger(log))
			if err != nil {
				t.Fatal(err)
			}
			for _, k := range []int{10, 20, 5, 6, 12, 30, 7, 17} {
				tree.Insert(k)
			}
			if err := tree.Verify(); err != nil {
				t.Fatalf("clean tree fails: %v", err)
			}
			tt.corrupt(tree)
			if err := tree.Verify(); err == nil {
				t.Fatal("Verify missed the corruption")
			}
		})
	}
}
