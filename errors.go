package bspcluster

import (
	"errors"
	"fmt"
)

var (
	// ErrNilTree is returned by NewModel when no tree is supplied.
	ErrNilTree = errors.New("bspcluster: tree must not be nil")

	// ErrInvalidTree is wrapped by every tree invariant violation.
	ErrInvalidTree = errors.New("bspcluster: invalid partition tree")

	// ErrInvalidParameters is returned when a non-empty parameter vector is
	// passed to a model that has no parameters.
	ErrInvalidParameters = errors.New("bspcluster: invalid parameter vector")

	// ErrDimensionMismatch is wrapped by DimensionMismatchError.
	ErrDimensionMismatch = errors.New("bspcluster: dimension mismatch")

	// ErrClusterOutOfRange is returned when a cluster index is not in
	// [0, NumberOfClusters()).
	ErrClusterOutOfRange = errors.New("bspcluster: cluster index out of range")
)

// DimensionMismatchError reports a point whose length differs from the
// dimensionality of the tree it was routed through.
type DimensionMismatchError struct {
	Index    int // position of the point in its batch
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("bspcluster: point %d has dimension %d, tree expects %d", e.Index, e.Actual, e.Expected)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// InvariantError describes the first structural invariant a tree violates.
type InvariantError struct {
	Node   NodeID
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("bspcluster: invalid partition tree: node %d: %s", e.Node, e.Reason)
}

func (e *InvariantError) Unwrap() error { return ErrInvalidTree }
