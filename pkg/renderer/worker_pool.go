package renderer

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// WorkerPool renders the tiles of a sample pass in parallel. Each task owns
// its result buffer, so workers share nothing but read-only scene data.
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	return &WorkerPool{numWorkers: max(1, numWorkers)}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// RenderPass renders every tile and returns the results in tile order. A
// panic inside a task is recovered and returned as an error; the remaining
// tasks are then skipped.
func (wp *WorkerPool) RenderPass(ctx context.Context, tiles []Tile, render func(Tile) TileResult) ([]TileResult, error) {
	results := make([]TileResult, len(tiles))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(wp.numWorkers)

	for i := range tiles {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("renderer: tile %d panicked: %v\n%s", tiles[i].ID, r, debug.Stack())
				}
			}()

			if err := groupCtx.Err(); err != nil {
				return err
			}
			results[i] = render(tiles[i])
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
