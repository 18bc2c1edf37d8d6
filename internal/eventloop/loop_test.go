package eventloop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExecutesInPostOrderUntilQuit(t *testing.T) {
	l := New()
	var got []int
	for i := range 5 {
		l.Post(func() { got = append(got, i) })
	}
	l.Quit()
	l.Post(func() { got = append(got, 99) })

	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)

	// The task posted after Quit is still queued.
	assert.Equal(t, 1, l.RunPending())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 99}, got)
}

func TestPostFromManyGoroutines(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	count := 0
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Post(func() { count++ })
		}()
	}
	go func() {
		wg.Wait()
		l.Quit()
	}()

	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, 50, count)
}

func TestRunReturnsOnContextDone(t *testing.T) {
	l := New()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Run(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestStopRejectsPosts(t *testing.T) {
	l := New()
	l.Post(func() { t.Fatal("discarded task ran") })
	l.Stop()
	assert.False(t, l.Post(func() {}))
	assert.Equal(t, 0, l.RunPending())
}
