// Package progress provides hashing throughput and ETA reporting helpers.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Event describes hashing status at a point in time.
type Event struct {
	Bytes      uint64
	Total      uint64
	InstantBps float64
	AverageBps float64
	ETA        time.Duration
	Elapsed    time.Duration
	Done       bool
	Name       string
}

// Reporter emits human-readable progress updates for one file.
type Reporter struct {
	mu         sync.Mutex
	w          io.Writer
	total      uint64
	name       string
	start      time.Time
	lastTick   time.Time
	lastBytes  uint64
	minTickGap time.Duration
}

// NewReporter creates a reporter with update throttling.
func NewReporter(w io.Writer, name string, total uint64) *Reporter {
	now := time.Now()
	return &Reporter{w: w, total: total, name: name, start: now, lastTick: now, minTickGap: 150 * time.Millisecond}
}

// Update prints progress at throttled intervals. Safe to call from a worker goroutine.
func (r *Reporter) Update(bytes uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if now.Sub(r.lastTick) < r.minTickGap && bytes < r.total {
		return
	}
	e := r.buildEvent(bytes, now, false)
	_, _ = fmt.Fprintf(r.w, "\rhashing %s %s/%s inst:%s avg:%s eta:%s", e.Name, humanBytes(e.Bytes), humanBytes(e.Total), humanRate(e.InstantBps), humanRate(e.AverageBps), humanDuration(e.ETA))
	r.lastTick = now
	r.lastBytes = bytes
}

// Done prints the final summary line.
func (r *Reporter) Done(bytes uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.buildEvent(bytes, time.Now(), true)
	_, _ = fmt.Fprintf(r.w, "\rhashed %s %s in %s avg:%s\n", e.Name, humanBytes(e.Bytes), humanDuration(e.Elapsed), humanRate(e.AverageBps))
}

func (r *Reporter) buildEvent(bytes uint64, now time.Time, done bool) Event {
	elapsed := now.Sub(r.start)
	if elapsed <= 0 {
		elapsed = time.Millisecond
	}
	chunkDur := now.Sub(r.lastTick)
	if chunkDur <= 0 {
		chunkDur = time.Millisecond
	}
	inst := float64(bytes-r.lastBytes) / chunkDur.Seconds()
	avg := float64(bytes) / elapsed.Seconds()
	remaining := uint64(0)
	if bytes < r.total {
		remaining = r.total - bytes
	}
	eta := time.Duration(0)
	if avg > 0 && remaining > 0 {
		eta = time.Duration(float64(remaining)/avg) * time.Second
	}
	return Event{Bytes: bytes, Total: r.total, InstantBps: inst, AverageBps: avg, ETA: eta, Elapsed: elapsed, Done: done, Name: r.name}
}

func humanBytes(v uint64) string {
	return humanize.IBytes(v)
}

func humanRate(bps float64) string {
	if bps < 0 {
		bps = 0
	}
	return fmt.Sprintf("%s/s", humanBytes(uint64(bps)))
}

func humanDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return d.Truncate(time.Second).String()
}
