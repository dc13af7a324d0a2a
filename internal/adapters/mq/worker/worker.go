// Package worker runs the audit pipeline asynchronously: each worker
// dequeues one job at a time and executes the synchronous
// classify→aggregate→score→cluster pass against it.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/nick0a/founderbleed/internal/adapters/mq/queue"
	"github.com/nick0a/founderbleed/pkg/logger"
	"github.com/nick0a/founderbleed/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Job is what workers read off the queue.
type Job = queue.Job

// Runner executes the full audit pipeline for one job and persists the
// result, including marking the audit failed when the run cannot complete.
type Runner interface {
	RunAudit(ctx context.Context, job Job) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes audit jobs until stopped.
type Worker struct {
	queue  Queue
	runner Runner
	name   string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker, applying options.
func NewWorker(q Queue, runner Runner, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		runner:   runner,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop until ctx is canceled or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, job)
		}
	}
}

// Shutdown stops the worker, waiting for the in-flight job.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker shutdown timed out: %w", ctx.Err())
	}
}

func (w *Worker) process(ctx context.Context, job Job) {
	start := time.Now()
	err := w.runner.RunAudit(ctx, job)
	metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "pipeline_error")
		w.logger.Error(ctx, "audit run failed",
			logger.String("auditID", job.AuditID),
			logger.Error(err),
		)
		return
	}
	metrics.RecordAuditProcessed()
	w.logger.Debug(ctx, "audit run complete",
		logger.String("auditID", job.AuditID),
		logger.Int("events", len(job.Events)),
	)
}

// Pool manages a fixed set of workers over one queue.
type Pool struct {
	workers []*Worker
}

// NewPool creates workerCount workers; a non-positive count defaults to a
// multiple of the CPU count.
func NewPool(workerCount int, q Queue, runner Runner) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{workers: make([]*Worker, workerCount)}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewWorker(q, runner, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop stops all workers, bounding the wait per worker.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
		if err := w.Shutdown(ctx); err != nil {
			w.logger.Error(ctx, "worker stop", logger.Error(err))
		}
		cancel()
	}
}
