// Package token implements the two-party liveness handshake shared by a
// hashing job and the requester waiting for its results.
package token

import "sync/atomic"

// Owners is the number of parties holding a reference at creation.
const Owners = 2

// Token is a count that starts at Owners and only ever decreases. Each owner
// calls Release exactly once; the release that reaches zero runs the free hook.
type Token struct {
	count  atomic.Int32
	onFree func()
}

// New returns a Token held by both the requester and the job. onFree may be nil.
func New(onFree func()) *Token {
	t := &Token{onFree: onFree}
	t.count.Store(Owners)
	return t
}

// Release drops one reference and reports whether the caller was last.
func (t *Token) Release() bool {
	switch n := t.count.Add(-1); {
	case n == 0:
		if t.onFree != nil {
			t.onFree()
		}
		return true
	case n < 0:
		panic("token: released more times than it has owners")
	default:
		return false
	}
}

// Live reports whether the requester still holds its reference.
func (t *Token) Live() bool { return t.count.Load() > 1 }
