package bspcluster

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// PartitionTree is an immutable, full binary space-partitioning tree.
//
// Nodes live in a flat arena laid out in pre-order: the root is node 0 and
// the left child of a split node i is node i+1. Every split has exactly two
// children, so a tree with L leaves has 2L-1 nodes.
//
// Trees are created by a Builder and never change afterwards, so any number
// of goroutines may read one concurrently.
type PartitionTree struct {
	nodes  []nodeRecord
	dims   int
	depth  int
	leaves []NodeID // leaf IDs in left-to-right order
}

const rootID NodeID = 0

// Root returns the root node.
func (t *PartitionTree) Root() Node { return Node{tree: t, id: rootID} }

// Node returns the node with the given ID. Panics if id is out of range.
func (t *PartitionTree) Node(id NodeID) Node {
	if id < 0 || int(id) >= len(t.nodes) {
		panic(fmt.Sprintf("bspcluster: node %d out of range [0, %d)", id, len(t.nodes)))
	}
	return Node{tree: t, id: id}
}

// Dims returns the dimensionality of the points the tree partitions.
func (t *PartitionTree) Dims() int { return t.dims }

// NumNodes returns the total number of nodes (splits and leaves).
func (t *PartitionTree) NumNodes() int { return t.nodes[rootID].count }

// NumLeaves returns the number of leaves.
func (t *PartitionTree) NumLeaves() int { return (t.nodes[rootID].count + 1) / 2 }

// Depth returns the number of edges on the longest root-to-leaf path.
func (t *PartitionTree) Depth() int { return t.depth }

// Leaves returns the leaf IDs in left-to-right order.
func (t *PartitionTree) Leaves() []NodeID {
	out := make([]NodeID, len(t.leaves))
	copy(out, t.leaves)
	return out
}

// Validate checks every structural invariant of the tree: each node is
// reachable from the root exactly once, splits have two children, node
// counts add up, the root holds 2L-1 nodes, and split parameters are
// usable with points of Dims() features.
func (t *PartitionTree) Validate() error {
	if len(t.nodes) == 0 {
		return &InvariantError{Node: NoNode, Reason: "tree has no nodes"}
	}
	if t.dims < 1 {
		return &InvariantError{Node: rootID, Reason: fmt.Sprintf("dimension must be >= 1, got %d", t.dims)}
	}

	seen := make([]bool, len(t.nodes))
	var leaves []NodeID
	depth := 0

	type frame struct {
		id    NodeID
		depth int
	}
	// Right child is pushed first so leaves pop in left-to-right order.
	stack := []frame{{id: rootID}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.id < 0 || int(f.id) >= len(t.nodes) {
			return &InvariantError{Node: f.id, Reason: "child reference out of range"}
		}
		if seen[f.id] {
			return &InvariantError{Node: f.id, Reason: "node reachable more than once"}
		}
		seen[f.id] = true
		r := &t.nodes[f.id]

		switch r.kind {
		case LeafNode:
			if r.count != 1 {
				return &InvariantError{Node: f.id, Reason: fmt.Sprintf("leaf node count is %d, want 1", r.count)}
			}
			leaves = append(leaves, f.id)
			depth = max(depth, f.depth)
		case SplitNode:
			if r.left == NoNode || r.right == NoNode {
				return &InvariantError{Node: f.id, Reason: "split node missing a child"}
			}
			if r.left < 0 || int(r.left) >= len(t.nodes) || r.right < 0 || int(r.right) >= len(t.nodes) {
				return &InvariantError{Node: f.id, Reason: "child reference out of range"}
			}
			want := 1 + t.nodes[r.left].count + t.nodes[r.right].count
			if r.count != want {
				return &InvariantError{Node: f.id, Reason: fmt.Sprintf("node count is %d, want %d", r.count, want)}
			}
			if reason := checkSplit(&r.split, t.dims); reason != "" {
				return &InvariantError{Node: f.id, Reason: reason}
			}
			stack = append(stack, frame{r.right, f.depth + 1}, frame{r.left, f.depth + 1})
		default:
			return &InvariantError{Node: f.id, Reason: fmt.Sprintf("unknown node kind %v", r.kind)}
		}
	}

	if slices.Contains(seen, false) {
		return &InvariantError{Node: rootID, Reason: "arena holds nodes unreachable from the root"}
	}
	if got, want := t.nodes[rootID].count, 2*len(leaves)-1; got != want {
		return &InvariantError{Node: rootID, Reason: fmt.Sprintf("root node count is %d, want 2L-1 = %d", got, want)}
	}
	if len(leaves) != len(t.leaves) {
		return &InvariantError{Node: rootID, Reason: "cached leaf order is stale"}
	}
	for i, id := range leaves {
		if t.leaves[i] != id {
			return &InvariantError{Node: id, Reason: "cached leaf order is stale"}
		}
	}
	if depth != t.depth {
		return &InvariantError{Node: rootID, Reason: fmt.Sprintf("cached depth is %d, want %d", t.depth, depth)}
	}
	return nil
}

// checkSplit returns a non-empty reason if s cannot route points of the
// given dimensionality.
func checkSplit(s *Split, dims int) string {
	switch s.Kind {
	case AxisSplit:
		if s.Feature < 0 || s.Feature >= dims {
			return fmt.Sprintf("axis split feature %d out of range [0, %d)", s.Feature, dims)
		}
		if math.IsNaN(s.Threshold) {
			return "axis split threshold is NaN"
		}
	case HyperplaneSplit:
		if len(s.Normal) != dims {
			return fmt.Sprintf("hyperplane normal has dimension %d, want %d", len(s.Normal), dims)
		}
		if floats.HasNaN(s.Normal) || math.IsNaN(s.Offset) {
			return "hyperplane has NaN parameters"
		}
	default:
		return fmt.Sprintf("unknown split kind %v", s.Kind)
	}
	return ""
}
