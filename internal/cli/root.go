// Package cli implements checksums command-line parsing and commands.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	apperrors "checksums/internal/errors"
)

// NewRootCommand creates the checksums root command.
func NewRootCommand(out io.Writer, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "checksums",
		Short:         "checksums computes MD5, SHA1, SHA256, SHA512 and SHA384 digests of files",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unknown command: %s: %w", args[0], apperrors.ErrUsage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", err, apperrors.ErrUsage)
	})
	root.AddCommand(
		NewVersionCommand(out),
		NewSumCommand(out, errOut),
	)
	return root
}
