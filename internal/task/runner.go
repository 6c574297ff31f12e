package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// RunnerConfig holds configuration for the task runner
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// TaskTimeout bounds a single execution. Zero means no limit.
	TaskTimeout time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
		TaskTimeout: time.Hour,
	}
}

// Runner executes tasks on a pool of workers and publishes their outcome
// into the registry.
type Runner struct {
	registry   *Registry
	queue      *TaskQueue
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger
	errHandler func(task Task, err error)
	startOnce  sync.Once
	stopOnce   sync.Once
}

// NewRunner creates a new Runner
func NewRunner(registry *Registry, config RunnerConfig, logger *slog.Logger) *Runner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	queue := NewTaskQueue(config.QueueSize, logger)
	logger = logger.With("component", "task_runner")

	return &Runner{
		registry:   registry,
		queue:      queue,
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger,
		errHandler: func(task Task, err error) {
			// Default error handler just logs the error
			logger.Error("task execution failed",
				"task_id", task.ID(),
				"task_type", task.Type(),
				"error", err)
		},
	}
}

// SetErrorHandler allows setting a custom error handler function
func (r *Runner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// Submit queues a task whose RUNNING record is already registered. It does
// not block; a full queue returns ErrQueueFull.
func (r *Runner) Submit(ctx context.Context, task Task) error {
	if err := r.queue.Enqueue(task); err != nil {
		return err
	}
	r.logger.DebugContext(ctx, "task submitted",
		"task_id", task.ID(),
		"task_type", task.Type(),
		"queue_len", r.queue.Len())
	return nil
}

// Start begins processing tasks. Calling it more than once has no effect.
func (r *Runner) Start() {
	r.startOnce.Do(func() {
		for i := 0; i < r.config.WorkerCount; i++ {
			r.wg.Add(1)
			go r.worker(i)
		}
	})
}

// Stop cancels running tasks and waits for workers to exit. Tasks still
// queued are dropped.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		r.cancelFunc()
		r.queue.Close()
		r.wg.Wait()
	})
}

// worker processes tasks from the queue
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case task, ok := <-r.queue.Channel():
			if !ok {
				r.logger.Debug("task channel closed, stopping worker", "worker_id", id)
				return
			}
			r.processTask(task, id)
		}
	}
}

// processTask runs one task and records its terminal state.
func (r *Runner) processTask(task Task, workerID int) {
	logger := r.logger.With(
		"task_id", task.ID(),
		"task_type", task.Type(),
		"worker_id", workerID,
	)

	ctx := r.ctx
	if r.config.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.TaskTimeout)
		defer cancel()
	}

	logger.Info("processing task")
	started := time.Now()

	result, err := r.execute(ctx, task)
	if err != nil {
		if !r.registry.Fail(task.ID(), task.Owner(), err.Error()) {
			logger.Warn("no running record to fail")
		}
		r.errHandler(task, err)
		return
	}

	if !r.registry.Complete(task.ID(), task.Owner(), result) {
		logger.Warn("no running record to complete")
	}
	logger.Info("task completed successfully", "duration", time.Since(started))
}

// execute runs the task, turning a panic into an error without a stack trace.
func (r *Runner) execute(ctx context.Context, task Task) (result any, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			result = nil
			err = fmt.Errorf("task panicked: %v", recovered)
		}
	}()
	return task.Execute(ctx)
}
