// Package renderer runs per-pixel kernels over an image in fixed-size tiles on
// a pool of worker goroutines.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-hybrid-composer/pkg/log"
)

// ErrPoolClosed is returned if the worker pool stops before every tile reported
var ErrPoolClosed = errors.New("renderer: worker pool closed unexpectedly")

// DefaultTileSize is the tile edge used when none is configured
const DefaultTileSize = 16

// Dispatcher splits dispatches into tiles and runs them in parallel
type Dispatcher struct {
	TileSize int
	Workers  int // Zero means one per CPU
	logger   log.Logger
}

// NewDispatcher creates a dispatcher. Non-positive tileSize selects DefaultTileSize.
func NewDispatcher(tileSize, workers int) *Dispatcher {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	return &Dispatcher{
		TileSize: tileSize,
		Workers:  workers,
		logger:   log.New("renderer"),
	}
}

// Dispatch calls kernel for every pixel of the tile-padded grid covering size
// and waits for completion. Cancelling ctx stops tiles that have not started.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, size image.Point, kernel Kernel) (DispatchStats, error) {
	stats := DispatchStats{Name: name, Width: size.X, Height: size.Y}
	if size.X <= 0 || size.Y <= 0 {
		return stats, fmt.Errorf("dispatch %s: invalid size %v", name, size)
	}

	start := time.Now()
	tiles := NewTileGrid(size.X, size.Y, d.TileSize)
	pool := NewWorkerPool(ctx, len(tiles), d.Workers)
	stats.Workers = pool.GetNumWorkers()

	d.logger.Debugf("dispatch %s: %dx%d in %d tiles on %d workers", name, size.X, size.Y, len(tiles), stats.Workers)

	pool.Start()
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, Kernel: kernel, TaskID: i})
	}

	var firstErr error
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			firstErr = ErrPoolClosed
			break
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		stats.Add(result.Stats)
	}
	pool.Stop()

	stats.Duration = time.Since(start)
	if firstErr != nil {
		return stats, fmt.Errorf("dispatch %s: %w", name, firstErr)
	}
	return stats, nil
}
