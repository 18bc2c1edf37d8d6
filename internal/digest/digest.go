// Package digest provides the lock-step multi-algorithm streaming hasher.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/zeebo/blake3"

	apperrors "checksums/internal/errors"
)

// Labels shown next to each digest.
const (
	LabelMD5    = "MD5"
	LabelSHA1   = "SHA1"
	LabelSHA256 = "SHA256"
	LabelSHA512 = "SHA512"
	LabelSHA384 = "SHA384"
	LabelBLAKE3 = "BLAKE3"
)

// Entry is one labeled lowercase-hex digest.
type Entry struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Factory creates one accumulator.
type Factory struct {
	Label string
	New   func() (hash.Hash, error)
}

func stdFactory(label string, fn func() hash.Hash) Factory {
	return Factory{Label: label, New: func() (hash.Hash, error) { return fn(), nil }}
}

// Standard returns the five fixed accumulators in presentation order.
func Standard() []Factory {
	return []Factory{
		stdFactory(LabelMD5, md5.New),
		stdFactory(LabelSHA1, sha1.New),
		stdFactory(LabelSHA256, sha256.New),
		stdFactory(LabelSHA512, sha512.New),
		stdFactory(LabelSHA384, sha512.New384),
	}
}

// WithBLAKE3 returns Standard plus a trailing BLAKE3 accumulator.
func WithBLAKE3() []Factory {
	return append(Standard(), Factory{Label: LabelBLAKE3, New: func() (hash.Hash, error) { return blake3.New(), nil }})
}

// Set feeds every written byte to all of its accumulators.
type Set struct {
	labels []string
	hashes []hash.Hash
	n      uint64
}

// New builds a Set from the given factories. If any accumulator cannot be
// created, no Set is returned.
func New(factories []Factory) (*Set, error) {
	if len(factories) == 0 {
		return nil, fmt.Errorf("no accumulators configured: %w", apperrors.ErrDigestAllocation)
	}
	s := &Set{
		labels: make([]string, 0, len(factories)),
		hashes: make([]hash.Hash, 0, len(factories)),
	}
	for _, f := range factories {
		h, err := f.New()
		if err != nil {
			return nil, fmt.Errorf("create %s accumulator: %w: %w", f.Label, err, apperrors.ErrDigestAllocation)
		}
		if h == nil {
			return nil, fmt.Errorf("create %s accumulator: %w", f.Label, apperrors.ErrDigestAllocation)
		}
		s.labels = append(s.labels, f.Label)
		s.hashes = append(s.hashes, h)
	}
	return s, nil
}

// Write adds data to every hash state.
func (s *Set) Write(p []byte) (int, error) {
	for _, h := range s.hashes {
		// hash.Hash.Write never returns an error.
		_, _ = h.Write(p)
	}
	s.n += uint64(len(p))
	return len(p), nil
}

// Len reports the number of bytes consumed so far.
func (s *Set) Len() uint64 { return s.n }

// Finalize returns one entry per accumulator, in construction order.
func (s *Set) Finalize() []Entry {
	entries := make([]Entry, len(s.hashes))
	for i, h := range s.hashes {
		entries[i] = Entry{Label: s.labels[i], Value: hex.EncodeToString(h.Sum(nil))}
	}
	return entries
}
