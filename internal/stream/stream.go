// Package stream provides the bounded-chunk file reader used by hashing jobs.
package stream

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	apperrors "checksums/internal/errors"
)

// DefaultChunkSize matches the platform stdio buffer.
const DefaultChunkSize = 8192

// MaxChunkSize bounds configurable chunk sizes.
const MaxChunkSize = 16 * 1024 * 1024

// Status describes the result of one ReadChunk call.
type Status int

const (
	// Data means the returned chunk holds at least one byte.
	Data Status = iota
	// EndOfStream means the source is exhausted.
	EndOfStream
	// IOError means the source failed; err carries the cause.
	IOError
)

func (s Status) String() string {
	switch s {
	case Data:
		return "data"
	case EndOfStream:
		return "end-of-stream"
	case IOError:
		return "io-error"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Reader reads a source sequentially in chunks of at most a fixed size.
type Reader struct {
	src     io.ReadCloser
	buf     []byte
	pending error

	closeOnce sync.Once
	closeErr  error
}

// NewReader wraps src with a chunk buffer of size bytes. Non-positive sizes
// fall back to DefaultChunkSize.
func NewReader(src io.ReadCloser, size int) *Reader {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if size > MaxChunkSize {
		size = MaxChunkSize
	}
	return &Reader{src: src, buf: make([]byte, size)}
}

// ReadChunk returns the next chunk. The returned slice is only valid until
// the next call. Bytes delivered alongside an error are returned first and
// the error is reported on the following call. On IOError the source's own
// error is returned unwrapped.
func (r *Reader) ReadChunk() ([]byte, Status, error) {
	if r.pending != nil {
		status, err := r.classify(r.pending)
		return nil, status, err
	}
	for {
		n, err := r.src.Read(r.buf)
		if n > 0 {
			r.pending = err
			return r.buf[:n], Data, nil
		}
		if err != nil {
			r.pending = err
			status, readErr := r.classify(err)
			return nil, status, readErr
		}
		// zero bytes with no error: io.Reader allows this, try again.
	}
}

func (r *Reader) classify(err error) (Status, error) {
	if errors.Is(err, io.EOF) {
		return EndOfStream, nil
	}
	return IOError, err
}

// Close closes the underlying source once; later calls return the first result.
func (r *Reader) Close() error {
	r.closeOnce.Do(func() {
		r.closeErr = r.src.Close()
	})
	return r.closeErr
}

// Open opens a regular file for hashing and returns it with its identity URI.
func Open(path string) (*os.File, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("resolve path: %w: %w", err, apperrors.ErrStreamOpen)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, "", fmt.Errorf("open file: %w: %w", err, apperrors.ErrStreamOpen)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, "", fmt.Errorf("stat file: %w: %w", err, apperrors.ErrStreamOpen)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, "", fmt.Errorf("%s is a directory: %w", abs, apperrors.ErrStreamOpen)
	}
	return file, Identity(abs), nil
}

// Identity returns the file URI used in diagnostics.
func Identity(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}
