// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// JobHandler is implemented by every task handler in internal/workers.
// Handlers report failures to the broker themselves via fail/throw-error
// commands, so Handle does not return an error.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// TaskWorker owns a single opened Zeebe job worker for one task type.
type TaskWorker struct {
	worker   worker.JobWorker
	logger   *zap.Logger
	taskType string
}

// WorkerOptions controls job polling behavior for a single task type.
type WorkerOptions struct {
	MaxJobsActive int
	Timeout       time.Duration
}

// NewTaskWorker opens a job worker on the given client and starts polling.
// The caller retains ownership of the client.
func NewTaskWorker(
	client zbc.Client,
	taskType string,
	opts WorkerOptions,
	handler JobHandler,
	logger *zap.Logger,
) *TaskWorker {
	if opts.MaxJobsActive <= 0 {
		opts.MaxJobsActive = 10
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(opts.MaxJobsActive).
		Timeout(opts.Timeout).
		Open()

	logger.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", opts.MaxJobsActive),
	)

	return &TaskWorker{
		worker:   jobWorker,
		logger:   logger,
		taskType: taskType,
	}
}

// Stop closes the job worker and waits for in-flight jobs to finish or
// the context to expire.
func (w *TaskWorker) Stop(ctx context.Context) {
	w.logger.Info("stopping worker", zap.String("taskType", w.taskType))

	done := make(chan struct{})
	go func() {
		w.worker.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("worker stop timed out", zap.String("taskType", w.taskType))
	}
}
