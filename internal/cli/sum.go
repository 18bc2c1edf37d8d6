package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"checksums/internal/checksums"
	"checksums/internal/config"
	apperrors "checksums/internal/errors"
	"checksums/internal/eventloop"
	"checksums/internal/logging"
	"checksums/internal/metrics"
	"checksums/internal/progress"
)

type sumOptions struct {
	configPath string
	chunkSize  int
	maxWorkers int
	blake3     bool
	output     string
	logLevel   string
	timeout    time.Duration
	progress   bool
	stats      bool
	printCfg   bool
}

// NewSumCommand creates the sum subcommand.
func NewSumCommand(out, errOut io.Writer) *cobra.Command {
	opts := &sumOptions{}
	cmd := &cobra.Command{
		Use:   "sum [flags] FILE...",
		Short: "Compute digests of one or more files",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 && !opts.printCfg {
				return fmt.Errorf("sum requires at least one file path argument: %w", apperrors.ErrUsage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			if opts.printCfg {
				return printConfig(out, cfg)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runSum(ctx, cfg, opts, args, out, errOut)
		},
	}
	addSumFlags(cmd.Flags(), opts)
	return cmd
}

func addSumFlags(fs *pflag.FlagSet, opts *sumOptions) {
	defaults := config.Default()
	fs.StringVarP(&opts.configPath, "config", "c", "", "TOML or JSONC config file")
	fs.IntVar(&opts.chunkSize, "chunk-size", defaults.ChunkSize, "bytes read per chunk")
	fs.IntVarP(&opts.maxWorkers, "max-workers", "j", defaults.MaxWorkers, "concurrent hashing jobs (-1 for unbounded)")
	fs.BoolVar(&opts.blake3, "blake3", defaults.BLAKE3, "also compute a BLAKE3 digest")
	fs.StringVarP(&opts.output, "output", "o", defaults.Output, "output format: text, yaml or json")
	fs.StringVar(&opts.logLevel, "log-level", defaults.LogLevel, "log level: debug, info, warn or error")
	fs.DurationVar(&opts.timeout, "timeout", 0, "give up on unfinished files after this long")
	fs.BoolVar(&opts.progress, "progress", false, "report hashing progress on stderr")
	fs.BoolVar(&opts.stats, "stats", false, "print job counters on stderr when done")
	fs.BoolVar(&opts.printCfg, "print-config", false, "print the effective configuration as TOML and exit")
}

func printConfig(out io.Writer, cfg config.Config) error {
	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// resolveConfig layers explicitly set flags over the config file over defaults.
func resolveConfig(fs *pflag.FlagSet, opts *sumOptions) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if fs.Changed("chunk-size") {
		cfg.ChunkSize = opts.chunkSize
	}
	if fs.Changed("max-workers") {
		cfg.MaxWorkers = opts.maxWorkers
	}
	if fs.Changed("blake3") {
		cfg.BLAKE3 = opts.blake3
	}
	if fs.Changed("output") {
		cfg.Output = opts.output
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("%w: %w", err, apperrors.ErrUsage)
	}
	return cfg, nil
}

func runSum(ctx context.Context, cfg config.Config, opts *sumOptions, paths []string, out, errOut io.Writer) error {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %w", err, apperrors.ErrUsage)
	}
	logger := logging.NewWithFormat(errOut, level, cfg.LogFormat)
	reg := prometheus.NewRegistry()
	loop := eventloop.New()

	reporters := map[string]*progress.Reporter{}
	svcOpts := checksums.Options{
		Loop:       loop,
		MaxWorkers: cfg.MaxWorkers,
		ChunkSize:  cfg.ChunkSize,
		BLAKE3:     cfg.BLAKE3,
		Logger:     logger,
		Metrics:    metrics.New(reg),
	}
	if opts.progress {
		svcOpts.Progress = func(path string) func(uint64) {
			var total uint64
			if info, statErr := os.Stat(path); statErr == nil {
				total = uint64(info.Size())
			}
			r := progress.NewReporter(errOut, path, total)
			reporters[path] = r
			return r.Update
		}
	}
	svc, err := checksums.New(svcOpts)
	if err != nil {
		return fmt.Errorf("start checksums service: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	paths = uniquePaths(paths)
	var models []*checksums.Model
	for _, path := range paths {
		found := svc.Models([]string{path})
		if len(found) == 0 {
			logger.Info("skipping path that is not a readable file", "path", path)
			continue
		}
		models = append(models, found...)
	}

	drained := make(chan struct{})
	go func() {
		svc.Shutdown()
		loop.Quit()
		close(drained)
	}()

	if runErr := loop.Run(ctx); runErr != nil {
		for _, m := range models {
			m.Dispose()
		}
		<-drained
		loop.Stop()
		if err := writeStats(errOut, opts.stats, reg); err != nil {
			return err
		}
		return fmt.Errorf("hashing stopped: %w: %w", runErr, apperrors.ErrInterrupted)
	}
	<-drained

	results := make([]fileResult, 0, len(models))
	for _, m := range models {
		if r, ok := reporters[m.Path]; ok {
			r.Done(sizeOf(m.Path))
		}
		if m.Group.Len() > 0 {
			results = append(results, fileResult{
				Title:     m.Group.Title(),
				Path:      m.Path,
				Identity:  m.Identity,
				Checksums: m.Group.Entries(),
			})
		}
		m.Dispose()
	}

	if err := render(out, cfg.Output, results); err != nil {
		return err
	}
	if err := writeStats(errOut, opts.stats, reg); err != nil {
		return err
	}
	if missing := len(paths) - len(results); missing > 0 {
		return fmt.Errorf("could not hash %d of %d files: %w", missing, len(paths), apperrors.ErrIncomplete)
	}
	return nil
}

func writeStats(w io.Writer, enabled bool, reg prometheus.Gatherer) error {
	if !enabled {
		return nil
	}
	summary, err := metrics.Summary(reg)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, summary)
	return nil
}

// uniquePaths drops repeated arguments naming the same file, keeping the
// first spelling in argument order.
func uniquePaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		key := filepath.Clean(path)
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, path)
	}
	return out
}

func sizeOf(path string) uint64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return uint64(info.Size())
}
