package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/recyclebin/pkg/config"
	"github.com/dmitrymomot/recyclebin/pkg/email"
	"github.com/dmitrymomot/recyclebin/pkg/logger"
	"github.com/dmitrymomot/recyclebin/svc/files"
)

type rootOptions struct {
	root     string
	output   string
	envFiles []string
	loadOpts []config.Option
}

// app is the per-invocation wiring shared by subcommands.
type app struct {
	cfg    Config
	logger *slog.Logger
	svc    *files.Service
	out    printer
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the CLI. loadOpts are appended to the configuration loader
// options, which lets callers isolate the process environment.
func NewRootCmd(loadOpts ...config.Option) *cobra.Command {
	opts := &rootOptions{loadOpts: loadOpts}

	cmd := &cobra.Command{
		Use:          "recyclebin",
		Short:        "File store with a recycle bin",
		Long:         "Upload, list, soft-delete, restore and purge files, and report storage usage.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.root, "root", "", "storage root directory (overrides STORAGE_ROOT)")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", formatText, "output format: text, json or yaml")
	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "env files to load (default .env if present)")

	cmd.AddCommand(
		newServeCmd(opts),
		newUploadCmd(opts),
		newListCmd(opts),
		newDeleteCmd(opts),
		newRestoreCmd(opts),
		newPurgeCmd(opts),
		newSizesCmd(opts),
		newSummaryCmd(opts),
	)
	return cmd
}

// newApp loads configuration and wires the files service.
func newApp(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (*app, error) {
	out, err := newPrinter(cmd.OutOrStdout(), opts.output)
	if err != nil {
		return nil, err
	}

	loadOpts := append([]config.Option{}, opts.loadOpts...)
	if len(opts.envFiles) > 0 {
		loadOpts = append(loadOpts, config.WithEnvFiles(opts.envFiles...))
	}
	var cfg Config
	if err := config.Load(&cfg, loadOpts...); err != nil {
		return nil, err
	}
	if opts.root != "" {
		cfg.Files.Root = opts.root
	}

	log := logger.New(append(cfg.loggerOptions(),
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithContextExtractors(logger.RequestIDExtractor(middleware.GetReqID)),
	)...)

	sender, err := email.New(cfg.Email)
	if err != nil {
		return nil, fmt.Errorf("notifier: %w", err)
	}

	svc, err := files.NewFromConfig(ctx, cfg.Files, sender, log)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	return &app{cfg: cfg, logger: log, svc: svc, out: out}, nil
}
