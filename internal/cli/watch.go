package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/almagest/internal/settings"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [object...]",
		Short: "Recompute aspects whenever the settings file changes",
		Long: `Print the chart aspects, then watch the --settings file and print them
again after every successful reload. Each reload clears the position
cache. Invalid edits are logged and the previous settings stay active.

Runs until interrupted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(rootOpts, args, cmd)
		},
	}
}

func runWatch(opts *RootOptions, args []string, cmd *cobra.Command) error {
	indices, err := parseObjects(args, defaultObjects())
	if err != nil {
		return err
	}
	e, err := newEnv(opts, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	if e.cfg.SettingsFile == "" {
		return NewExitError(ExitCommandError, "watch requires a settings file (--settings)")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Only the latest reload matters.
	reloads := make(chan *settings.Settings, 1)
	w, err := settings.Watch(e.cfg.SettingsFile,
		func(st *settings.Settings) {
			select {
			case <-reloads:
			default:
			}
			reloads <- st
		},
		settings.WithWatchLogger(e.logger),
		settings.WithErrorHandler(func(err error) {
			e.logger.Warn("settings reload rejected", zap.Error(err))
		}),
	)
	if err != nil {
		return WrapExitError(ExitCommandError, "watch settings", err)
	}
	defer w.Close()

	render := func() error {
		result, err := e.aspects(ctx, indices)
		if err != nil {
			return err
		}
		return e.out.Success(result)
	}
	if err := render(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case st := <-reloads:
			if err := e.svc.SetSettings(ctx, st); err != nil {
				return e.fail(ErrCodeSettings, "apply settings", err)
			}
			e.logger.Info("settings reloaded",
				zap.String("file", e.cfg.SettingsFile),
				zap.Stringer("generation", e.svc.Registry().Generation()))
			if err := render(); err != nil {
				return err
			}
		}
	}
}
