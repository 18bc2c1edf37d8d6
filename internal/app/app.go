// Package app wires checksums application execution.
package app

import (
	"fmt"
	"io"
	"os"

	"checksums/internal/cli"
	apperrors "checksums/internal/errors"
)

// App wires CLI execution.
type App struct {
	out    io.Writer
	errOut io.Writer
}

// New creates an App bound to the process standard streams.
func New() App {
	return App{out: os.Stdout, errOut: os.Stderr}
}

// NewWithWriters creates an App writing to the given streams.
func NewWithWriters(out, errOut io.Writer) App {
	return App{out: out, errOut: errOut}
}

// Run executes the application and returns a process exit code.
func (a App) Run(args []string) int {
	root := cli.NewRootCommand(a.out, a.errOut)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintf(a.errOut, "error: %v\n", err)
		return apperrors.ExitCode(err)
	}

	return 0
}
