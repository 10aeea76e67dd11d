package bspcluster

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// HardMembershipParallel is HardMembership with the batch split into
// contiguous row blocks, one per goroutine. Each traversal only reads the
// immutable tree and writes its own output slot, so no locking is needed.
// The result is identical to HardMembership.
//
// Falls back to HardMembership when one worker suffices. ctx is checked
// before each block starts.
func (m *Model) HardMembershipParallel(ctx context.Context, points [][]float64) ([]int, error) {
	n := len(points)
	numWorkers := min(m.cfg.Workers, (n+m.cfg.MinRowsPerWorker-1)/m.cfg.MinRowsPerWorker)
	if numWorkers <= 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return m.HardMembership(points)
	}

	if err := m.checkDims(points, 0); err != nil {
		return nil, err
	}

	result := make([]int, n)
	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	m.cfg.Logger.Debug("bspcluster: parallel membership",
		slog.Int("rows", n),
		slog.Int("workers", numWorkers),
		slog.Int("rows_per_worker", rowsPerWorker),
	)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := min(startRow+rowsPerWorker, n)
		if startRow >= n {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := startRow; i < endRow; i++ {
				result[i] = m.membership(points[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
