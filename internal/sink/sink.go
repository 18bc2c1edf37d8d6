// Package sink holds the ordered, append-only result groups shown to the user.
//
// A Group is owned by the event loop goroutine. Nothing here is locked;
// callers on other goroutines must post their changes to the loop.
package sink

import "checksums/internal/digest"

// Sink accepts labeled values in display order.
type Sink interface {
	Append(label, value string)
}

// Group is a titled list of digest entries with a dispose hook.
type Group struct {
	title     string
	entries   []digest.Entry
	onDispose []func()
	disposed  bool
}

// NewGroup creates an empty group.
func NewGroup(title string) *Group {
	return &Group{title: title}
}

// Title returns the group heading.
func (g *Group) Title() string { return g.title }

// Append adds one entry at the end.
func (g *Group) Append(label, value string) {
	g.entries = append(g.entries, digest.Entry{Label: label, Value: value})
}

// Entries returns a copy of the entries in append order.
func (g *Group) Entries() []digest.Entry {
	out := make([]digest.Entry, len(g.entries))
	copy(out, g.entries)
	return out
}

// Len returns the number of entries.
func (g *Group) Len() int { return len(g.entries) }

// OnDispose registers fn to run when the group is disposed.
func (g *Group) OnDispose(fn func()) {
	g.onDispose = append(g.onDispose, fn)
}

// Dispose runs the registered hooks once. The entries stay readable.
func (g *Group) Dispose() {
	if g.disposed {
		return
	}
	g.disposed = true
	hooks := g.onDispose
	g.onDispose = nil
	for _, fn := range hooks {
		fn()
	}
}

// Disposed reports whether Dispose has run.
func (g *Group) Disposed() bool { return g.disposed }
