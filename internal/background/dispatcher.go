package background

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Dispatcher fans queued tasks out to a fixed pool of workers. Task
// failures stay inside the pool: a panicking task is recovered and logged,
// and the worker keeps consuming.
type Dispatcher struct {
	queue   *Queue
	workers int
	logger  *zap.Logger
}

// NewDispatcher creates a Dispatcher over the queue with the given pool size.
func NewDispatcher(queue *Queue, workers int, logger *zap.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		queue:   queue,
		workers: workers,
		logger:  logger,
	}
}

// Run starts all workers and blocks until the context finishes and the
// workers have drained.
func (d *Dispatcher) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.consume(ctx)
		}()
	}
	<-ctx.Done()
	wg.Wait()
}

func (d *Dispatcher) consume(ctx context.Context) {
	for {
		task, err := d.queue.Dequeue(ctx)
		if err != nil {
			return
		}
		d.runTask(ctx, task)
	}
}

func (d *Dispatcher) runTask(ctx context.Context, task Task) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error("background task panicked",
				zap.String("task", task.Name),
				zap.Any("panic", rec))
		}
	}()
	if task.Run == nil {
		return
	}
	task.Run(ctx)
}

// Dispatch hands a task to the pool without blocking. A full queue drops
// the task with a warning; callers must not rely on delivery.
func (d *Dispatcher) Dispatch(task Task) {
	if d.queue.TryEnqueue(task) {
		return
	}
	d.logger.Warn("background task dropped: queue full", zap.String("task", task.Name))
}

// RunWithSync executes primary to completion and returns its result
// immediately, dispatching sync as a detached task when primary succeeds.
// The sync outcome can never alter or delay the returned value.
func RunWithSync[T any](d *Dispatcher, name string, primary func() (T, error), sync func(ctx context.Context)) (T, error) {
	result, err := primary()
	if err != nil {
		return result, err
	}
	d.Dispatch(Task{Name: name, Run: sync})
	return result, nil
}
