package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sakif/notekeeper/internal/bootstrap"
	"github.com/sakif/notekeeper/internal/config"
	"github.com/sakif/notekeeper/internal/service"
)

// engineOpener hands a ready engine to a command. The closer releases the
// storage behind it.
type engineOpener func(ctx context.Context, logger *slog.Logger) (*service.Engine, io.Closer, error)

// openConfiguredEngine is the real opener: config from the environment,
// storage from bootstrap.
func openConfiguredEngine(ctx context.Context, logger *slog.Logger) (*service.Engine, io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return bootstrap.OpenEngine(ctx, cfg, logger)
}

// app carries what every subcommand needs.
type app struct {
	open    engineOpener
	logger  *slog.Logger
	verbose bool
	noColor bool
}

func newRootCmd(open engineOpener) *cobra.Command {
	a := &app{open: open}

	rootCmd := &cobra.Command{
		Use:   "notes",
		Short: "Keep short text notes: add, edit, pin, tag and search them",
		Long: `notes manages a personal collection of short text notes.

Notes are stored in the backend selected by STORAGE_BACKEND (sqlite by
default, at DB_PATH). Pinned notes always list first, newest first within
pinned and unpinned.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Engine chatter ("note created", ...) is debug-level noise for a
			// CLI; warnings such as a corrupt store still show.
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))

			if a.noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newAddCmd(a),
		newEditCmd(a),
		newRmCmd(a),
		newPinCmd(a),
		newListCmd(a),
		newThemeCmd(a),
		newExportCmd(a),
	)
	return rootCmd
}

// withEngine opens the engine, runs fn and closes the storage again.
func (a *app) withEngine(cmd *cobra.Command, fn func(ctx context.Context, e *service.Engine) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	engine, closer, err := a.open(ctx, a.logger)
	if err != nil {
		return fmt.Errorf("opening notes: %w", err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			a.logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	return fn(ctx, engine)
}
