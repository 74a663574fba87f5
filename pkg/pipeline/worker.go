// pkg/pipeline/worker.go
package pipeline

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// WorkerState represents the current state of a worker
type WorkerState string

const (
	WorkerStateIdle      WorkerState = "idle"
	WorkerStateWorking   WorkerState = "working"
	WorkerStateCompleted WorkerState = "completed"
)

// rowJob is one cell to annotate. The value is interface{} because a null
// cell arrives as nil and must be distinguishable from an empty string.
type rowJob struct {
	Index int
	Value interface{}
}

// rowResult is the annotated value for one row.
type rowResult struct {
	Index int
	Value string
}

// annotateWorker applies a pure per-row transform. Rows are independent,
// so workers share nothing but the read-only lexical resources captured by
// the transform closure.
type annotateWorker struct {
	ID        int
	transform func(interface{}) string
	logger    *zap.Logger
	state     WorkerState
	stateLock sync.RWMutex
}

// newAnnotateWorker creates a new worker
func newAnnotateWorker(id int, transform func(interface{}) string, logger *zap.Logger) *annotateWorker {
	return &annotateWorker{
		ID:        id,
		transform: transform,
		logger:    logger.With(zap.Int("workerID", id)),
		state:     WorkerStateIdle,
	}
}

// State returns the current state of the worker
func (w *annotateWorker) State() WorkerState {
	w.stateLock.RLock()
	defer w.stateLock.RUnlock()
	return w.state
}

// setState updates the worker state
func (w *annotateWorker) setState(state WorkerState) {
	w.stateLock.Lock()
	defer w.stateLock.Unlock()
	w.state = state
}

// Start begins the worker processing loop
func (w *annotateWorker) Start(ctx context.Context, jobs <-chan rowJob, results chan<- rowResult) {
	w.setState(WorkerStateWorking)

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("Worker stopping due to context cancellation")
			w.setState(WorkerStateCompleted)
			return

		case job, ok := <-jobs:
			if !ok {
				// Channel closed, no more jobs
				w.setState(WorkerStateCompleted)
				return
			}

			result := rowResult{Index: job.Index, Value: w.transform(job.Value)}

			select {
			case results <- result:
				// Result sent successfully
			case <-ctx.Done():
				w.logger.Warn("Context cancelled while sending result",
					zap.Int("rowIndex", job.Index))
				w.setState(WorkerStateCompleted)
				return
			}
		}
	}
}

// runAnnotation fans the values out over a worker pool and returns the
// transformed values in the original row order. Output order is preserved
// by index, so parallelism never reorders rows.
func runAnnotation(
	ctx context.Context,
	poolSize int,
	values []interface{},
	transform func(interface{}) string,
	logger *zap.Logger,
) ([]string, error) {
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
	}
	if poolSize > len(values) && len(values) > 0 {
		poolSize = len(values)
	}

	jobs := make(chan rowJob, poolSize)
	results := make(chan rowResult, poolSize)

	var wg sync.WaitGroup
	for i := 0; i < poolSize; i++ {
		worker := newAnnotateWorker(i, transform, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Start(ctx, jobs, results)
		}()
	}

	go func() {
		defer close(jobs)
		for i, v := range values {
			select {
			case jobs <- rowJob{Index: i, Value: v}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]string, len(values))
	received := 0
	for result := range results {
		out[result.Index] = result.Value
		received++
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if received != len(values) {
		// Workers exited early without a context error; should not happen.
		return nil, context.Canceled
	}
	return out, nil
}
