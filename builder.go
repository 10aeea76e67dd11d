package bspcluster

import "fmt"

// Ref is a handle to a node under construction in a Builder. It is only
// meaningful to the Builder that returned it.
type Ref int

type pendingNode struct {
	kind        NodeKind
	left, right Ref
	split       Split
}

// Builder assembles a PartitionTree from leaves and splits chosen by an
// external tree producer. It does not pick splits itself.
//
// Each Ref may be used as a child at most once, so every split exclusively
// owns its two children. Errors are sticky: the first invalid call is
// reported by Build and later calls are ignored.
//
//	b := bspcluster.NewBuilder(2)
//	tree, err := b.Build(b.AxisSplit(0, 0.5, b.Leaf(), b.Leaf()))
type Builder struct {
	dims    int
	pending []pendingNode
	owned   []bool
	built   bool
	err     error
}

// NewBuilder starts a tree over points with dims features.
func NewBuilder(dims int) *Builder {
	b := &Builder{dims: dims}
	if dims < 1 {
		b.err = fmt.Errorf("%w: dimension must be >= 1, got %d", ErrInvalidTree, dims)
	}
	return b
}

// Leaf adds a terminal node.
func (b *Builder) Leaf() Ref {
	return b.add(pendingNode{kind: LeafNode, left: -1, right: -1})
}

// AxisSplit adds a split routing p left when p[feature] < threshold.
func (b *Builder) AxisSplit(feature int, threshold float64, left, right Ref) Ref {
	return b.addSplit(Split{Kind: AxisSplit, Feature: feature, Threshold: threshold}, left, right)
}

// HyperplaneSplit adds a split routing p left when dot(normal, p) < offset.
// normal is copied.
func (b *Builder) HyperplaneSplit(normal []float64, offset float64, left, right Ref) Ref {
	n := append([]float64(nil), normal...)
	return b.addSplit(Split{Kind: HyperplaneSplit, Normal: n, Offset: offset}, left, right)
}

func (b *Builder) addSplit(s Split, left, right Ref) Ref {
	if b.err == nil {
		if reason := checkSplit(&s, b.dims); reason != "" {
			b.fail(reason)
		}
	}
	b.claim(left)
	if left == right {
		b.fail(fmt.Sprintf("ref %d used as both children", left))
	} else {
		b.claim(right)
	}
	return b.add(pendingNode{kind: SplitNode, left: left, right: right, split: s})
}

func (b *Builder) add(n pendingNode) Ref {
	if b.built {
		b.fail("builder already built a tree")
	}
	b.pending = append(b.pending, n)
	b.owned = append(b.owned, false)
	return Ref(len(b.pending) - 1)
}

// claim marks r as owned by a split.
func (b *Builder) claim(r Ref) {
	if r < 0 || int(r) >= len(b.pending) {
		b.fail(fmt.Sprintf("unknown ref %d", r))
		return
	}
	if b.owned[r] {
		b.fail(fmt.Sprintf("ref %d already has a parent", r))
		return
	}
	b.owned[r] = true
}

func (b *Builder) fail(reason string) {
	if b.err == nil {
		b.err = fmt.Errorf("%w: %s", ErrInvalidTree, reason)
	}
}

// Build freezes the nodes reachable from root into a PartitionTree laid out
// in pre-order. Every node added to the builder must be reachable from
// root. A Builder builds at most one tree.
func (b *Builder) Build(root Ref) (*PartitionTree, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.dims < 1 {
		return nil, fmt.Errorf("%w: dimension must be >= 1, got %d", ErrInvalidTree, b.dims)
	}
	if b.built {
		return nil, fmt.Errorf("%w: builder already built a tree", ErrInvalidTree)
	}
	if root < 0 || int(root) >= len(b.pending) {
		return nil, fmt.Errorf("%w: unknown root ref %d", ErrInvalidTree, root)
	}
	if b.owned[root] {
		return nil, fmt.Errorf("%w: root ref %d has a parent", ErrInvalidTree, root)
	}

	t := &PartitionTree{
		nodes: make([]nodeRecord, 0, len(b.pending)),
		dims:  b.dims,
	}
	b.emit(t, root, 0)

	if len(t.nodes) != len(b.pending) {
		return nil, fmt.Errorf("%w: %d nodes unreachable from root", ErrInvalidTree, len(b.pending)-len(t.nodes))
	}
	b.built = true
	b.pending = nil
	b.owned = nil
	return t, nil
}

// emit appends the subtree rooted at r to t in pre-order and returns the
// new ID of r. Node counts are filled in on the way back up.
func (b *Builder) emit(t *PartitionTree, r Ref, depth int) NodeID {
	p := &b.pending[r]
	id := NodeID(len(t.nodes))

	if p.kind == LeafNode {
		t.nodes = append(t.nodes, nodeRecord{kind: LeafNode, left: NoNode, right: NoNode, count: 1})
		t.leaves = append(t.leaves, id)
		t.depth = max(t.depth, depth)
		return id
	}

	t.nodes = append(t.nodes, nodeRecord{kind: SplitNode, split: p.split})
	left := b.emit(t, p.left, depth+1)
	right := b.emit(t, p.right, depth+1)

	rec := &t.nodes[id]
	rec.left = left
	rec.right = right
	rec.count = 1 + t.nodes[left].count + t.nodes[right].count
	return id
}
