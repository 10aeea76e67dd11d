package bspcluster

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// NodeID addresses a node inside the arena of its PartitionTree.
type NodeID int

// NoNode is the child ID stored on leaves.
const NoNode NodeID = -1

// NodeKind distinguishes terminal leaves from split nodes.
type NodeKind uint8

const (
	LeafNode NodeKind = iota
	SplitNode
)

func (k NodeKind) String() string {
	switch k {
	case LeafNode:
		return "leaf"
	case SplitNode:
		return "split"
	default:
		return fmt.Sprintf("NodeKind(%d)", uint8(k))
	}
}

// SplitKind selects the decision rule of a split node.
type SplitKind uint8

const (
	// AxisSplit routes a point left when p[Feature] < Threshold.
	AxisSplit SplitKind = iota
	// HyperplaneSplit routes a point left when dot(Normal, p) < Offset.
	HyperplaneSplit
)

func (k SplitKind) String() string {
	switch k {
	case AxisSplit:
		return "axis"
	case HyperplaneSplit:
		return "hyperplane"
	default:
		return fmt.Sprintf("SplitKind(%d)", uint8(k))
	}
}

// Split holds the fixed parameters of a split node's decision rule.
// Only the fields belonging to Kind are meaningful.
type Split struct {
	Kind SplitKind

	Feature   int
	Threshold float64

	Normal []float64
	Offset float64
}

// goesLeft evaluates the decision rule. It panics when p cannot be
// evaluated by the rule, since a silently wrong route would produce a
// wrong cluster index.
func (s *Split) goesLeft(p []float64) bool {
	switch s.Kind {
	case AxisSplit:
		if s.Feature >= len(p) {
			panic(fmt.Sprintf("bspcluster: axis split on feature %d, point has dimension %d", s.Feature, len(p)))
		}
		return p[s.Feature] < s.Threshold
	case HyperplaneSplit:
		if len(s.Normal) != len(p) {
			panic(fmt.Sprintf("bspcluster: hyperplane split of dimension %d, point has dimension %d", len(s.Normal), len(p)))
		}
		return floats.Dot(s.Normal, p) < s.Offset
	default:
		panic(fmt.Sprintf("bspcluster: unknown split kind %v", s.Kind))
	}
}

// nodeRecord is the arena representation of a node.
type nodeRecord struct {
	kind        NodeKind
	left, right NodeID
	count       int // nodes in the subtree rooted here, including itself
	split       Split
}

// Node is a read-only view of one node of a PartitionTree. It is only
// valid together with the tree it came from.
type Node struct {
	tree *PartitionTree
	id   NodeID
}

func (n Node) rec() *nodeRecord { return &n.tree.nodes[n.id] }

// ID returns the node's position in the tree arena.
func (n Node) ID() NodeID { return n.id }

// Kind reports whether the node is a leaf or a split.
func (n Node) Kind() NodeKind { return n.rec().kind }

// HasChildren reports whether the node is a split node.
func (n Node) HasChildren() bool { return n.rec().kind == SplitNode }

// NodeCount returns the number of nodes in the subtree rooted at n.
func (n Node) NodeCount() int { return n.rec().count }

// LeafCount returns the number of leaves in the subtree rooted at n.
func (n Node) LeafCount() int { return (n.rec().count + 1) / 2 }

// Left returns the left child. Panics on a leaf.
func (n Node) Left() Node {
	r := n.rec()
	if r.kind != SplitNode {
		panic(fmt.Sprintf("bspcluster: Left called on leaf node %d", n.id))
	}
	return Node{tree: n.tree, id: r.left}
}

// Right returns the right child. Panics on a leaf.
func (n Node) Right() Node {
	r := n.rec()
	if r.kind != SplitNode {
		panic(fmt.Sprintf("bspcluster: Right called on leaf node %d", n.id))
	}
	return Node{tree: n.tree, id: r.right}
}

// Split returns a copy of the node's split parameters. Panics on a leaf.
func (n Node) Split() Split {
	r := n.rec()
	if r.kind != SplitNode {
		panic(fmt.Sprintf("bspcluster: Split called on leaf node %d", n.id))
	}
	s := r.split
	if s.Normal != nil {
		s.Normal = append([]float64(nil), s.Normal...)
	}
	return s
}

// Decide reports whether p is routed to the left child. It is pure and
// panics on a leaf or on a point the split cannot evaluate.
func (n Node) Decide(p []float64) bool {
	r := n.rec()
	if r.kind != SplitNode {
		panic(fmt.Sprintf("bspcluster: Decide called on leaf node %d", n.id))
	}
	return r.split.goesLeft(p)
}
