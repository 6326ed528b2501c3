package renderer

import (
	"context"
	"runtime"
	"sync"
)

// TileTask represents one tile of a kernel dispatch for the worker pool
type TileTask struct {
	Tile   *Tile
	Kernel Kernel
	TaskID int // For deterministic ordering
}

// TileResult contains the result from running a tile
type TileResult struct {
	TaskID int
	Stats  TileStats
	Error  error
}

// WorkerPool manages parallel tile dispatch
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual tile tasks
type Worker struct {
	ID          int
	ctx         context.Context
	taskQueue   chan TileTask
	resultQueue chan TileResult
}

// NewWorkerPool creates a worker pool sized for numTiles tasks. Workers skip
// remaining tiles once ctx is done.
func NewWorkerPool(ctx context.Context, numTiles, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, numTiles),   // Buffer for all tiles
		resultQueue: make(chan TileResult, numTiles), // Buffer for all results
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			ctx:         ctx,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		// Every task still produces a result so the dispatcher can count them
		if err := w.ctx.Err(); err != nil {
			w.resultQueue <- TileResult{TaskID: task.TaskID, Error: err}
			continue
		}

		// Tiles never overlap, so kernels write disjoint pixels
		stats := RunTile(task.Tile, task.Kernel)
		w.resultQueue <- TileResult{TaskID: task.TaskID, Stats: stats}
	}
}
