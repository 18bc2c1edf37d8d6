// Package checksums is the process-wide hashing service: it turns a selected
// file into a titled result group and hashes it in the background.
//
// Watch, Models and Model.Dispose must be called from the goroutine that runs
// the event loop given to New; results are appended to groups on that loop.
package checksums

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"checksums/internal/digest"
	apperrors "checksums/internal/errors"
	"checksums/internal/job"
	"checksums/internal/logging"
	"checksums/internal/metrics"
	"checksums/internal/pool"
	"checksums/internal/publish"
	"checksums/internal/sink"
	"checksums/internal/stream"
	"checksums/internal/token"
)

// Title heads every result group.
const Title = "Checksums"

// Diagnostic messages.
const (
	MsgPoolCreate = "Unable to create thread pool for calculations - Checksums will be disabled"
	MsgBusy       = "Unable to compute checksums at the moment"
)

// OpenFunc opens path and returns the stream and its identity.
type OpenFunc func(path string) (io.ReadCloser, string, error)

// Options configures a Service.
type Options struct {
	Loop       publish.Poster
	MaxWorkers int
	ChunkSize  int
	BLAKE3     bool
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	// Open defaults to stream.Open.
	Open OpenFunc
	// Progress, if set, returns a per-file callback invoked after every chunk.
	Progress func(path string) func(hashed uint64)
}

// Service owns the worker pool. Create one with New and stop it with Shutdown.
type Service struct {
	pool      *pool.Pool
	publisher *publish.Publisher
	factories []digest.Factory
	chunkSize int
	logger    *slog.Logger
	metrics   *metrics.Metrics
	open      OpenFunc
	progress  func(string) func(uint64)
}

// Model is what the requester displays: a titled group that fills in once
// hashing completes. Disposing it tells the job to stop.
type Model struct {
	Title    string
	Path     string
	Identity string
	Group    *sink.Group
}

// Dispose releases the requester's interest in the results.
func (m *Model) Dispose() { m.Group.Dispose() }

// New starts the service. On failure the feature is unusable; the error is
// logged once here.
func New(opts Options) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.Loop == nil {
		return nil, errors.New("checksums service requires an event loop")
	}
	p, err := pool.New(opts.MaxWorkers, opts.Metrics)
	if err != nil {
		logger.Warn(logging.Diagnostic(MsgPoolCreate, "", err))
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	factories := digest.Standard()
	if opts.BLAKE3 {
		factories = digest.WithBLAKE3()
	}
	open := opts.Open
	if open == nil {
		open = func(path string) (io.ReadCloser, string, error) {
			f, id, err := stream.Open(path)
			if err != nil {
				return nil, "", err
			}
			return f, id, nil
		}
	}
	return &Service{
		pool:      p,
		publisher: publish.New(opts.Loop),
		factories: factories,
		chunkSize: opts.ChunkSize,
		logger:    logger,
		metrics:   opts.Metrics,
		open:      open,
		progress:  opts.Progress,
	}, nil
}

// Models returns a model only for a selection of exactly one openable,
// non-directory file. Anything else yields nil without diagnostics.
func (s *Service) Models(paths []string) []*Model {
	if len(paths) != 1 {
		return nil
	}
	m, err := s.Watch(paths[0])
	if err != nil {
		s.logger.Debug("skipping file", "path", paths[0], "error", err)
		return nil
	}
	return []*Model{m}
}

// Watch opens path and submits a hashing job for it.
func (s *Service) Watch(path string) (*Model, error) {
	src, identity, err := s.open(path)
	if err != nil {
		if !errors.Is(err, apperrors.ErrStreamOpen) {
			err = fmt.Errorf("%w: %w", err, apperrors.ErrStreamOpen)
		}
		return nil, err
	}

	s.metrics.TokenCreated()
	tok := token.New(s.metrics.TokenFreed)
	group := sink.NewGroup(Title)

	var progress func(uint64)
	if s.progress != nil {
		progress = s.progress(path)
	}
	j := job.New(job.Options{
		Identity:  identity,
		Source:    src,
		Token:     tok,
		Sink:      group,
		Publisher: s.publisher,
		Factories: s.factories,
		ChunkSize: s.chunkSize,
		Logger:    s.logger,
		Metrics:   s.metrics,
		Progress:  progress,
	})

	if err := s.pool.Submit(func() { j.Run() }); err != nil {
		if errors.Is(err, apperrors.ErrPoolClosed) {
			// The job will never run: drop both references here.
			tok.Release()
			tok.Release()
			_ = src.Close()
			return nil, err
		}
		s.logger.Warn(logging.Diagnostic(MsgBusy, identity, err))
	}

	group.OnDispose(func() { tok.Release() })
	return &Model{Title: Title, Path: path, Identity: identity, Group: group}, nil
}

// Shutdown waits for every submitted job to finish. Results they publish are
// queued on the event loop.
func (s *Service) Shutdown() {
	s.pool.Shutdown()
}
