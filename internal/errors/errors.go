// Package errors defines application errors and exit code mapping.
package errors

import sterrors "errors"

var (
	// ErrUsage indicates a command usage failure.
	ErrUsage = sterrors.New("usage error")
	// ErrConfig indicates an unreadable or invalid configuration file.
	ErrConfig = sterrors.New("configuration error")
	// ErrInterrupted indicates the run was cancelled before all jobs finished.
	ErrInterrupted = sterrors.New("interrupted")
	// ErrIncomplete indicates some requested files produced no checksums.
	ErrIncomplete = sterrors.New("some files could not be hashed")

	// ErrStreamOpen indicates a file could not be opened for hashing.
	ErrStreamOpen = sterrors.New("unable to open file stream")
	// ErrDigestAllocation indicates one of the digest accumulators could not be created.
	ErrDigestAllocation = sterrors.New("could not allocate checksum state")
	// ErrRead indicates the file stream failed mid-read.
	ErrRead = sterrors.New("I/O error")
	// ErrClose indicates the file stream failed to close.
	ErrClose = sterrors.New("unable to close file stream")
	// ErrSaturated indicates the pool could not start a job right away.
	ErrSaturated = sterrors.New("unable to compute checksums at the moment")
	// ErrPoolClosed indicates a submission after shutdown.
	ErrPoolClosed = sterrors.New("worker pool is shut down")
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	switch {
	case sterrors.Is(err, ErrUsage):
		return 2
	case sterrors.Is(err, ErrConfig):
		return 3
	case sterrors.Is(err, ErrInterrupted):
		return 130
	case sterrors.Is(err, ErrIncomplete):
		return 1
	}

	return 1
}
