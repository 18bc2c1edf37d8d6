// Package publish hands finished digests to the goroutine that owns the sink.
package publish

import (
	"checksums/internal/digest"
	"checksums/internal/sink"
)

// Poster schedules a task on the sink owner's goroutine.
type Poster interface {
	Post(fn func()) bool
}

// Results is the bundle delivered for one successful job.
type Results struct {
	Sink    sink.Sink
	Entries []digest.Entry
}

// Publisher appends Results to their sink from the owning goroutine.
type Publisher struct {
	loop Poster
}

// New returns a Publisher posting onto loop.
func New(loop Poster) *Publisher {
	return &Publisher{loop: loop}
}

// Publish schedules one task that appends every entry in order. It reports
// false if the loop no longer accepts tasks, in which case nothing is appended.
func (p *Publisher) Publish(res Results) bool {
	return p.loop.Post(func() {
		for _, e := range res.Entries {
			res.Sink.Append(e.Label, e.Value)
		}
		res.Sink = nil
		res.Entries = nil
	})
}
