// Package eventloop provides the single-consumer task queue that owns every
// result sink. Worker goroutines hand results over by posting closures;
// only the goroutine running the loop executes them.
package eventloop

import (
	"context"
	"sync"
)

// Loop is an unbounded FIFO of tasks drained by one goroutine.
type Loop struct {
	mu      sync.Mutex
	tasks   []func()
	wake    chan struct{}
	quit    bool
	stopped bool
}

// New creates an idle loop.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post enqueues fn to run on the loop goroutine. It never blocks and reports
// false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	l.signal()
	return true
}

// Quit asks Run to return after every task posted before it has run.
func (l *Loop) Quit() {
	l.Post(func() {
		l.mu.Lock()
		l.quit = true
		l.mu.Unlock()
	})
}

// Run executes tasks in order until Quit is reached or ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		for {
			fn, ok := l.next()
			if !ok {
				break
			}
			fn()
			if l.quitting() {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// RunPending runs every task queued right now and returns how many ran.
func (l *Loop) RunPending() int {
	l.mu.Lock()
	batch := l.tasks
	l.tasks = nil
	l.mu.Unlock()
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Stop discards queued tasks and rejects new posts.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.stopped = true
	l.tasks = nil
	l.mu.Unlock()
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tasks) == 0 {
		return nil, false
	}
	fn := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]
	return fn, true
}

func (l *Loop) quitting() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.quit {
		l.quit = false
		return true
	}
	return false
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
