// Package bspcluster assigns points to the clusters defined by a binary
// space-partitioning tree.
//
// Every leaf of the tree is one cluster. Clusters are numbered 0..L-1 in
// left-to-right leaf order, derived purely from subtree node counts: a
// full binary tree with L leaves has 2L-1 nodes, so routing a point right
// at a split skips (left.NodeCount()+1)/2 cluster indices.
//
// Trees are produced elsewhere (by a KD-tree or linear-classifier tree
// trainer, for example) and handed over through a Builder:
//
//	b := bspcluster.NewBuilder(2)
//	left := b.AxisSplit(1, 0, b.Leaf(), b.Leaf())
//	right := b.AxisSplit(1, 0, b.Leaf(), b.Leaf())
//	tree, err := b.Build(b.AxisSplit(0, 0, left, right))
//
// A Model then answers membership queries:
//
//	model, err := bspcluster.NewModel(tree, bspcluster.DefaultConfig())
//	labels, err := model.HardMembership(points)
//	// labels[i] is in [0, model.NumberOfClusters())
//
// # Concurrency
//
// Trees and models are immutable once built. HardMembershipParallel splits
// large batches across goroutines; its result is identical to
// HardMembership.
package bspcluster
