package bspcluster

import (
	"fmt"
	"log/slog"
	"runtime"

	"gonum.org/v1/gonum/mat"
)

// Config controls Model behavior.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Workers controls the number of goroutines used by
	// HardMembershipParallel. 0 means use runtime.NumCPU().
	// Must be >= 0. Default: 0 (auto).
	Workers int

	// MinRowsPerWorker is the smallest block of points handed to one
	// goroutine. Small batches run on fewer workers. Must be >= 0.
	// Default: 64.
	MinRowsPerWorker int

	// SkipValidation skips the O(nodes) invariant check in NewModel.
	// Only set this for large trees from a trusted producer. Default: false.
	SkipValidation bool

	// Logger receives debug records. nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		MinRowsPerWorker: 64,
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.Workers < 0 {
		return fmt.Errorf("bspcluster: Workers must be >= 0 (0 means runtime.NumCPU()), got %d", cfg.Workers)
	}
	if cfg.MinRowsPerWorker < 0 {
		return fmt.Errorf("bspcluster: MinRowsPerWorker must be >= 0, got %d", cfg.MinRowsPerWorker)
	}
	return nil
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.MinRowsPerWorker == 0 {
		cfg.MinRowsPerWorker = 64
	}
	cfg.Logger = loggerOrDiscard(cfg.Logger)
}

// Model assigns points to the clusters defined by the leaves of a
// PartitionTree. Clusters are numbered 0..L-1 in left-to-right leaf order.
//
// A Model borrows its tree: it neither copies nor mutates it, and the tree
// must outlive the model. A Model holds no mutable state and is safe for
// concurrent use.
type Model struct {
	tree *PartitionTree
	cfg  Config
}

// NewModel returns a Model over tree. It fails if tree is nil, if cfg is
// invalid, or (unless cfg.SkipValidation is set) if tree breaks one of
// its structural invariants.
func NewModel(tree *PartitionTree, cfg Config) (*Model, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if !cfg.SkipValidation {
		if err := tree.Validate(); err != nil {
			return nil, err
		}
	}

	cfg.Logger.Debug("bspcluster: model created",
		slog.Int("nodes", tree.NumNodes()),
		slog.Int("clusters", tree.NumLeaves()),
		slog.Int("depth", tree.Depth()),
		slog.Int("dims", tree.Dims()),
	)
	return &Model{tree: tree, cfg: cfg}, nil
}

// Tree returns the tree the model reads from.
func (m *Model) Tree() *PartitionTree { return m.tree }

// NumberOfClusters returns the number of leaves of the tree.
func (m *Model) NumberOfClusters() int {
	return (m.tree.nodes[rootID].count + 1) / 2
}

// HardMembership returns the cluster index of every point, in order.
// It fails without a partial result if any point's dimension differs
// from the tree's. A single-leaf tree maps every point to 0 without
// looking at it.
func (m *Model) HardMembership(points [][]float64) ([]int, error) {
	if err := m.checkDims(points, 0); err != nil {
		return nil, err
	}
	out := make([]int, len(points))
	for i, p := range points {
		out[i] = m.membership(p)
	}
	return out, nil
}

// HardMembershipPoint returns the cluster index of a single point.
func (m *Model) HardMembershipPoint(p []float64) (int, error) {
	if m.tree.nodes[rootID].kind == SplitNode && len(p) != m.tree.dims {
		return 0, &DimensionMismatchError{Index: 0, Expected: m.tree.dims, Actual: len(p)}
	}
	return m.membership(p), nil
}

// HardMembershipMatrix treats each row of x as a point.
func (m *Model) HardMembershipMatrix(x mat.Matrix) ([]int, error) {
	rows, cols := x.Dims()
	if m.tree.nodes[rootID].kind == SplitNode && cols != m.tree.dims {
		return nil, &DimensionMismatchError{Index: 0, Expected: m.tree.dims, Actual: cols}
	}
	out := make([]int, rows)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, x)
		out[i] = m.membership(row)
	}
	return out, nil
}

// ClusterLeaf returns the leaf that defines cluster k.
func (m *Model) ClusterLeaf(k int) (NodeID, error) {
	if k < 0 || k >= len(m.tree.leaves) {
		return NoNode, fmt.Errorf("%w: %d not in [0, %d)", ErrClusterOutOfRange, k, len(m.tree.leaves))
	}
	return m.tree.leaves[k], nil
}

// ClusterSizes returns how many of points fall into each cluster.
func (m *Model) ClusterSizes(points [][]float64) ([]int, error) {
	labels, err := m.HardMembership(points)
	if err != nil {
		return nil, err
	}
	sizes := make([]int, m.NumberOfClusters())
	for _, k := range labels {
		sizes[k]++
	}
	return sizes, nil
}

// checkDims verifies the dimension of every point before any routing
// happens. offset is added to reported indices.
func (m *Model) checkDims(points [][]float64, offset int) error {
	if m.tree.nodes[rootID].kind != SplitNode {
		return nil
	}
	for i, p := range points {
		if len(p) != m.tree.dims {
			return &DimensionMismatchError{Index: offset + i, Expected: m.tree.dims, Actual: len(p)}
		}
	}
	return nil
}

// membership walks from the root to a leaf. Routing right skips the left
// subtree, so its leaf count is added to the index.
func (m *Model) membership(p []float64) int {
	nodes := m.tree.nodes
	idx := 0
	id := rootID
	for nodes[id].kind == SplitNode {
		r := &nodes[id]
		if r.split.goesLeft(p) {
			id = r.left
		} else {
			idx += (nodes[r.left].count + 1) / 2
			id = r.right
		}
	}
	return idx
}
