package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "checksums/internal/errors"
	"checksums/internal/metrics"
)

func TestNewRejectsInvalidLimits(t *testing.T) {
	for _, limit := range []int{0, -2} {
		_, err := New(limit, nil)
		assert.Error(t, err, "limit %d", limit)
	}
}

func TestUnboundedRunsAllAtOnce(t *testing.T) {
	p, err := New(Unbounded, nil)
	require.NoError(t, err)

	const n = 32
	var started sync.WaitGroup
	started.Add(n)
	release := make(chan struct{})
	for range n {
		require.NoError(t, p.Submit(func() {
			started.Done()
			<-release
		}))
	}

	done := make(chan struct{})
	go func() {
		started.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("tasks did not run concurrently")
	}
	close(release)
	p.Shutdown()
}

func TestSaturatedSubmissionStillRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := New(1, metrics.New(reg))
	require.NoError(t, err)

	block := make(chan struct{})
	require.NoError(t, p.Submit(func() { <-block }))

	var ran atomic.Bool
	err = p.Submit(func() { ran.Store(true) })
	assert.ErrorIs(t, err, apperrors.ErrSaturated)

	close(block)
	p.Shutdown()
	assert.True(t, ran.Load(), "queued task was dropped")

	summary, err := metrics.Summary(reg)
	require.NoError(t, err)
	assert.Contains(t, summary, "checksums_jobs_deferred_total 1")
	assert.Contains(t, summary, "checksums_jobs_submitted_total 2")
}

func TestShutdownDrainsPending(t *testing.T) {
	p, err := New(2, nil)
	require.NoError(t, err)

	var finished atomic.Int32
	for range 6 {
		_ = p.Submit(func() {
			time.Sleep(5 * time.Millisecond)
			finished.Add(1)
		})
	}
	p.Shutdown()
	assert.Equal(t, int32(6), finished.Load())
}

func TestSubmitAfterShutdown(t *testing.T) {
	p, err := New(Unbounded, nil)
	require.NoError(t, err)
	p.Shutdown()

	assert.ErrorIs(t, p.Submit(func() {}), apperrors.ErrPoolClosed)
}
