package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"checksums/internal/buildinfo"
	apperrors "checksums/internal/errors"
)

// NewVersionCommand creates the version subcommand.
func NewVersionCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("version accepts no arguments: %w", apperrors.ErrUsage)
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			if _, err := fmt.Fprintln(out, buildinfo.Get().String()); err != nil {
				return fmt.Errorf("write version output: %w", err)
			}
			return nil
		},
	}
}
