// Package job runs one file through the digest set on a worker goroutine.
package job

import (
	"fmt"
	"io"
	"log/slog"

	"checksums/internal/digest"
	apperrors "checksums/internal/errors"
	"checksums/internal/logging"
	"checksums/internal/metrics"
	"checksums/internal/publish"
	"checksums/internal/sink"
	"checksums/internal/stream"
	"checksums/internal/token"
)

// Diagnostic messages.
const (
	MsgIOError    = "I/O error"
	MsgCloseError = "Unable to close file stream"
	MsgAllocError = "Could not allocate memory for calculating one or more checksums"
)

// Kind is the terminal state of a job.
type Kind int

const (
	// Completed means the whole stream was hashed and results were handed off.
	Completed Kind = iota
	// Abandoned means the requester went away before the stream was consumed.
	Abandoned
	// Failed means hashing stopped on an error; see Reason.
	Failed
)

func (k Kind) String() string {
	switch k {
	case Completed:
		return "completed"
	case Abandoned:
		return "abandoned"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Reason qualifies a Failed outcome.
type Reason int

const (
	NoReason Reason = iota
	DigestAllocation
	ReadError
)

// Outcome is the tagged result of Run.
type Outcome struct {
	Kind   Kind
	Reason Reason
	Err    error
	// Bytes is how many bytes reached the accumulators.
	Bytes uint64
	// Entries is set only for Completed outcomes.
	Entries []digest.Entry
	// CloseErr is the stream close failure, reported independently of Kind.
	CloseErr error
}

// Publisher delivers finished digests to the sink owner.
type Publisher interface {
	Publish(res publish.Results) bool
}

// Options configures a Job. Identity, Source, Token, Sink and Publisher are required.
type Options struct {
	Identity  string
	Source    io.ReadCloser
	Token     *token.Token
	Sink      sink.Sink
	Publisher Publisher

	// Factories defaults to digest.Standard.
	Factories []digest.Factory
	// ChunkSize defaults to stream.DefaultChunkSize.
	ChunkSize int
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	// Progress, if set, is called from the worker after every chunk.
	Progress func(hashed uint64)
}

// Job is a single-use unit of hashing work.
type Job struct {
	identity  string
	source    io.ReadCloser
	token     *token.Token
	sink      sink.Sink
	publisher Publisher
	factories []digest.Factory
	chunkSize int
	logger    *slog.Logger
	metrics   *metrics.Metrics
	progress  func(uint64)
}

// New snapshots opts into a Job.
func New(opts Options) *Job {
	factories := opts.Factories
	if factories == nil {
		factories = digest.Standard()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Job{
		identity:  opts.Identity,
		source:    opts.Source,
		token:     opts.Token,
		sink:      opts.Sink,
		publisher: opts.Publisher,
		factories: factories,
		chunkSize: opts.ChunkSize,
		logger:    logger,
		metrics:   opts.Metrics,
		progress:  opts.Progress,
	}
}

// Run hashes the stream, hands results off on success, releases the job's
// token reference and closes the stream. Every path does the last two exactly once.
func (j *Job) Run() Outcome {
	r := stream.NewReader(j.source, j.chunkSize)

	out := j.hash(r)
	switch out.Kind {
	case Completed:
		if !j.publisher.Publish(publish.Results{Sink: j.sink, Entries: out.Entries}) {
			j.logger.Debug("result owner stopped before results could be delivered", "file", j.identity)
		}
	case Failed:
		switch out.Reason {
		case DigestAllocation:
			j.logger.Warn(MsgAllocError, "file", j.identity, "error", out.Err)
		case ReadError:
			j.logger.Warn(logging.Diagnostic(MsgIOError, j.identity, out.Err))
			out.Err = fmt.Errorf("%w: %w", apperrors.ErrRead, out.Err)
		}
	}
	j.sink = nil
	j.token.Release()

	if err := r.Close(); err != nil {
		j.logger.Warn(logging.Diagnostic(MsgCloseError, j.identity, err))
		out.CloseErr = fmt.Errorf("%w: %w", apperrors.ErrClose, err)
	}
	j.metrics.Finished(out.Kind.String())
	return out
}

func (j *Job) hash(r *stream.Reader) Outcome {
	if !j.token.Live() {
		return Outcome{Kind: Abandoned}
	}
	set, err := digest.New(j.factories)
	if err != nil {
		return Outcome{Kind: Failed, Reason: DigestAllocation, Err: err}
	}
	for {
		chunk, status, err := r.ReadChunk()
		switch status {
		case stream.IOError:
			return Outcome{Kind: Failed, Reason: ReadError, Err: err, Bytes: set.Len()}
		case stream.EndOfStream:
			return Outcome{Kind: Completed, Bytes: set.Len(), Entries: set.Finalize()}
		}
		_, _ = set.Write(chunk)
		j.metrics.Hashed(len(chunk))
		if j.progress != nil {
			j.progress(set.Len())
		}
		if !j.token.Live() {
			return Outcome{Kind: Abandoned, Bytes: set.Len()}
		}
	}
}
