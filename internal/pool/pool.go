// Package pool runs hashing jobs on background goroutines.
package pool

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	apperrors "checksums/internal/errors"
	"checksums/internal/metrics"
)

// Unbounded disables the concurrency cap.
const Unbounded = -1

// Pool executes submitted tasks concurrently with no ordering between them.
type Pool struct {
	mu     sync.RWMutex
	closed bool

	limit   int
	group   errgroup.Group
	queued  sync.WaitGroup
	metrics *metrics.Metrics
}

// New creates a pool running at most maxWorkers tasks at once, or any number
// of them when maxWorkers is Unbounded.
func New(maxWorkers int, m *metrics.Metrics) (*Pool, error) {
	if maxWorkers == 0 || maxWorkers < Unbounded {
		return nil, fmt.Errorf("invalid worker limit %d", maxWorkers)
	}
	p := &Pool{limit: maxWorkers, metrics: m}
	p.group.SetLimit(maxWorkers)
	return p, nil
}

// Submit schedules task. When every worker is busy the task is still queued
// and will run later, but ErrSaturated is returned so the caller can report
// the delay. After Shutdown, tasks are rejected with ErrPoolClosed.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return apperrors.ErrPoolClosed
	}
	p.metrics.Submitted()

	run := func() error {
		task()
		return nil
	}
	if p.group.TryGo(run) {
		return nil
	}

	p.metrics.Deferred()
	p.queued.Add(1)
	go func() {
		defer p.queued.Done()
		p.group.Go(run)
	}()
	return fmt.Errorf("all %d workers busy, job queued: %w", p.limit, apperrors.ErrSaturated)
}

// Shutdown rejects new tasks and blocks until every queued and running task
// has returned.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.queued.Wait()
	_ = p.group.Wait()
}
