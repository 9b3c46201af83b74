package jobs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewPoolRequiresHandler(t *testing.T) {
	if _, err := NewPool(PoolConfig{Logger: testLogger()}); err == nil {
		t.Error("expected error for missing handler")
	}
}

func TestPoolProcessesJobs(t *testing.T) {
	var processed atomic.Int32
	pool, err := NewPool(PoolConfig{
		Logger:      testLogger(),
		WorkerCount: 2,
		Handler: func(ctx context.Context, job Job) error {
			processed.Add(1)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pool.Start(ctx)

	const n = 5
	for i := 0; i < n; i++ {
		if err := pool.Submit(NewJob(fmt.Sprintf("/in/doc%d", i), "")); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	for i := 0; i < n; i++ {
		select {
		case res := <-pool.Results():
			if res.Err != nil {
				t.Errorf("job error: %v", res.Err)
			}
			if res.Job.ID == "" {
				t.Error("job has no id")
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for results")
		}
	}
	if got := processed.Load(); got != n {
		t.Errorf("processed = %d, want %d", got, n)
	}
}

func TestPoolReportsHandlerError(t *testing.T) {
	pool, err := NewPool(PoolConfig{
		Logger:      testLogger(),
		WorkerCount: 1,
		Handler: func(ctx context.Context, job Job) error {
			return fmt.Errorf("parse failed")
		},
	})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pool.Start(ctx)

	if err := pool.Submit(NewJob("/in/bad", "")); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	select {
	case res := <-pool.Results():
		if res.Err == nil {
			t.Error("expected handler error in result")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}
}

func TestPoolQueueFull(t *testing.T) {
	block := make(chan struct{})
	pool, err := NewPool(PoolConfig{
		Logger:      testLogger(),
		WorkerCount: 1,
		QueueSize:   1,
		Handler: func(ctx context.Context, job Job) error {
			<-block
			return nil
		},
	})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer close(block)

	// Pool not started: the queue holds exactly one job.
	if err := pool.Submit(NewJob("/in/a", "")); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := pool.Submit(NewJob("/in/b", "")); err == nil {
		t.Error("expected ErrQueueFull")
	}
}
