package token

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequesterFirst(t *testing.T) {
	var freed int
	tok := New(func() { freed++ })
	require.True(t, tok.Live())

	assert.False(t, tok.Release(), "requester release")
	assert.False(t, tok.Live())
	assert.True(t, tok.Release(), "job release")
	assert.Equal(t, 1, freed)
}

func TestJobFirst(t *testing.T) {
	var freed int
	tok := New(func() { freed++ })

	assert.False(t, tok.Release(), "job release")
	// The job's own release also drops the count to one.
	assert.False(t, tok.Live())
	assert.True(t, tok.Release(), "requester release")
	assert.Equal(t, 1, freed)
}

func TestConcurrentReleaseFreesOnce(t *testing.T) {
	for i := 0; i < 1000; i++ {
		var freed, lastCount atomic.Int32
		tok := New(func() { freed.Add(1) })

		var wg sync.WaitGroup
		start := make(chan struct{})
		for range Owners {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if tok.Release() {
					lastCount.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()

		require.Equal(t, int32(1), freed.Load(), "iteration %d", i)
		require.Equal(t, int32(1), lastCount.Load(), "iteration %d", i)
	}
}

func TestOverReleasePanics(t *testing.T) {
	tok := New(nil)
	tok.Release()
	tok.Release()
	assert.Panics(t, func() { tok.Release() })
}
