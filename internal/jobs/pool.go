// Package jobs runs document parses on a fixed pool of CPU workers.
// One full-document parse is one unit of work; the pool exists so the
// watch loop can keep accepting filesystem events while parses run.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ErrQueueFull is returned by Submit when the pool cannot accept more work.
var ErrQueueFull = fmt.Errorf("job queue full")

// Job is one document-parse request.
type Job struct {
	ID       string
	InputDir string
	DocName  string
	Enqueued time.Time
}

// NewJob creates a job for the given input directory.
func NewJob(inputDir, docName string) Job {
	return Job{
		ID:       uuid.New().String(),
		InputDir: inputDir,
		DocName:  docName,
		Enqueued: time.Now(),
	}
}

// Result is the outcome of one job.
type Result struct {
	Job      Job
	Err      error
	Duration time.Duration
}

// Handler executes one job. Implementations must be safe for
// concurrent use.
type Handler func(ctx context.Context, job Job) error

// Pool manages worker goroutines that all pull from a single shared
// queue - natural load balancing via channel semantics.
type Pool struct {
	logger      *slog.Logger
	workerCount int

	queue   chan Job
	results chan Result
	handler Handler

	inFlight atomic.Int32
}

// PoolConfig configures a new pool.
type PoolConfig struct {
	Logger      *slog.Logger
	WorkerCount int // Number of worker goroutines (default: runtime.NumCPU())
	QueueSize   int // Queue size (default: 64)
	Handler     Handler
}

// NewPool creates a pool. Handler is required.
func NewPool(cfg PoolConfig) (*Pool, error) {
	if cfg.Handler == nil {
		return nil, fmt.Errorf("pool handler is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}

	return &Pool{
		logger:      logger.With("pool", "parse", "workers", workerCount),
		workerCount: workerCount,
		queue:       make(chan Job, queueSize),
		results:     make(chan Result, queueSize),
		handler:     cfg.Handler,
	}, nil
}

// Start begins processing. Blocks until ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	p.logger.Debug("pool starting")
	for i := 0; i < p.workerCount; i++ {
		go p.worker(ctx, i)
	}
	<-ctx.Done()
	p.logger.Debug("pool stopping")
}

func (p *Pool) worker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.queue:
			p.inFlight.Add(1)
			start := time.Now()
			err := p.handler(ctx, job)
			duration := time.Since(start)
			p.inFlight.Add(-1)

			if err != nil {
				p.logger.Error("job failed",
					"worker_id", id, "job_id", job.ID, "input", job.InputDir, "error", err)
			} else {
				p.logger.Info("job complete",
					"worker_id", id, "job_id", job.ID, "input", job.InputDir, "duration", duration)
			}

			select {
			case p.results <- Result{Job: job, Err: err, Duration: duration}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Submit adds a job to the queue without blocking.
func (p *Pool) Submit(job Job) error {
	select {
	case p.queue <- job:
		p.logger.Debug("job accepted", "job_id", job.ID, "queue_len", len(p.queue))
		return nil
	default:
		p.logger.Warn("queue full", "job_id", job.ID)
		return fmt.Errorf("%w: %s", ErrQueueFull, job.InputDir)
	}
}

// Results returns the channel of completed jobs.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// InFlight returns how many jobs are currently executing.
func (p *Pool) InFlight() int {
	return int(p.inFlight.Load())
}
