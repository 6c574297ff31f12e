package task

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Submission errors.
var (
	ErrQueueClosed = errors.New("task queue is closed")
	ErrQueueFull   = errors.New("task queue is full")
)

// TaskQueue is a bounded buffer of tasks waiting for a worker.
type TaskQueue struct {
	mu     sync.RWMutex
	tasks  chan Task
	logger *slog.Logger
	closed bool
}

// NewTaskQueue creates a queue holding at most size waiting tasks.
func NewTaskQueue(size int, logger *slog.Logger) *TaskQueue {
	return &TaskQueue{
		tasks:  make(chan Task, size),
		logger: logger.With("component", "task_queue"),
	}
}

// Enqueue hands task to the workers without blocking. A full queue is
// reported as ErrQueueFull rather than waited on.
func (q *TaskQueue) Enqueue(task Task) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.tasks <- task:
		q.logger.Debug("task enqueued", "task_id", task.ID(), "waiting", len(q.tasks))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.tasks))
	}
}

// Close stops accepting tasks. Tasks already queued are still delivered
// through Channel. Calling Close more than once is a no-op.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.tasks)
	q.logger.Info("task queue closed", "undelivered", len(q.tasks))
}

// Len returns the number of tasks waiting for a worker.
func (q *TaskQueue) Len() int {
	return len(q.tasks)
}

// Channel is drained by the runner's workers.
func (q *TaskQueue) Channel() <-chan Task {
	return q.tasks
}
