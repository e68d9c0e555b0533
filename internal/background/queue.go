// Package background runs detached best-effort work, primarily the sheet
// mirror, without ever blocking or failing the request that spawned it.
package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Task is one unit of detached work.
type Task struct {
	// Name labels the task in logs and metrics.
	Name string
	// Run does the work. Panics are recovered by the dispatcher.
	Run func(ctx context.Context)
}

// Queue is a bounded in-memory task queue with context-aware operations.
type Queue struct {
	ch      chan Task
	closeMu sync.Mutex
	closed  bool
}

// NewQueue constructs a new queue with the provided capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{
		ch: make(chan Task, capacity),
	}
}

// Enqueue pushes a task into the queue or returns if the context ends.
func (q *Queue) Enqueue(ctx context.Context, task Task) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("enqueue canceled: %w", ctx.Err())
	case q.ch <- task:
		return nil
	}
}

// TryEnqueue pushes a task without blocking. A full queue drops the task
// and returns false; there is no retry queue, a dropped sync is lost.
func (q *Queue) TryEnqueue(task Task) bool {
	select {
	case q.ch <- task:
		return true
	default:
		return false
	}
}

// Dequeue pops the next task, respecting context cancellation.
func (q *Queue) Dequeue(ctx context.Context) (Task, error) {
	select {
	case <-ctx.Done():
		return Task{}, fmt.Errorf("dequeue canceled: %w", ctx.Err())
	case task, ok := <-q.ch:
		if !ok {
			return Task{}, errors.New("queue closed")
		}
		return task, nil
	}
}

// Close closes the underlying channel for shutdown.
func (q *Queue) Close() {
	q.closeMu.Lock()
	defer q.closeMu.Unlock()
	if q.closed {
		return
	}
	close(q.ch)
	q.closed = true
}
