package bspcluster

import (
	"math/rand"
	"testing"
)

// singleLeafTree is a tree with one node.
func singleLeafTree(t testing.TB, dims int) *PartitionTree {
	t.Helper()
	b := NewBuilder(dims)
	tree, err := b.Build(b.Leaf())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

// threeNodeTree splits 2D points on x < 0.
func threeNodeTree(t testing.TB) *PartitionTree {
	t.Helper()
	b := NewBuilder(2)
	tree, err := b.Build(b.AxisSplit(0, 0, b.Leaf(), b.Leaf()))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

// sevenNodeTree partitions the x axis into [-inf,1) [1,2) [2,3) [3,inf).
func sevenNodeTree(t testing.TB) *PartitionTree {
	t.Helper()
	b := NewBuilder(1)
	left := b.AxisSplit(0, 1, b.Leaf(), b.Leaf())
	right := b.AxisSplit(0, 3, b.Leaf(), b.Leaf())
	tree, err := b.Build(b.AxisSplit(0, 2, left, right))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

// intervalTree builds a random-shaped 1D tree whose leaf i covers [i, i+1),
// so the point i+0.5 must land in cluster i.
func intervalTree(t testing.TB, rng *rand.Rand, leaves int) *PartitionTree {
	t.Helper()
	b := NewBuilder(1)
	var build func(lo, hi int) Ref
	build = func(lo, hi int) Ref {
		if hi-lo == 1 {
			return b.Leaf()
		}
		k := lo + 1 + rng.Intn(hi-lo-1)
		l := build(lo, k)
		r := build(k, hi)
		return b.AxisSplit(0, float64(k), l, r)
	}
	tree, err := b.Build(build(0, leaves))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

// randomTree builds a random full binary tree with the given number of
// leaves, mixing axis and hyperplane splits.
func randomTree(t testing.TB, rng *rand.Rand, dims, leaves int) *PartitionTree {
	t.Helper()
	b := NewBuilder(dims)
	var build func(n int) Ref
	build = func(n int) Ref {
		if n == 1 {
			return b.Leaf()
		}
		k := 1 + rng.Intn(n-1)
		l := build(k)
		r := build(n - k)
		if rng.Intn(2) == 0 {
			return b.AxisSplit(rng.Intn(dims), rng.NormFloat64(), l, r)
		}
		normal := make([]float64, dims)
		for i := range normal {
			normal[i] = rng.NormFloat64()
		}
		return b.HyperplaneSplit(normal, rng.NormFloat64(), l, r)
	}
	tree, err := b.Build(build(leaves))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

func randomPoints(rng *rand.Rand, n, dims int) [][]float64 {
	points := make([][]float64, n)
	for i := range points {
		points[i] = make([]float64, dims)
		for j := range points[i] {
			points[i][j] = rng.NormFloat64() * 2
		}
	}
	return points
}

// reachedLeaf walks the tree through the public Node API and returns the
// leaf p ends up in.
func reachedLeaf(tree *PartitionTree, p []float64) NodeID {
	n := tree.Root()
	for n.HasChildren() {
		if n.Decide(p) {
			n = n.Left()
		} else {
			n = n.Right()
		}
	}
	return n.ID()
}

// countLeaves counts leaves by recursion, independent of node counts.
func countLeaves(n Node) int {
	if !n.HasChildren() {
		return 1
	}
	return countLeaves(n.Left()) + countLeaves(n.Right())
}

func leafPosition(tree *PartitionTree, id NodeID) int {
	for i, l := range tree.Leaves() {
		if l == id {
			return i
		}
	}
	return -1
}

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	f()
}
