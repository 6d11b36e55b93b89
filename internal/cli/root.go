package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/almagest/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	Date       string // RFC 3339; empty means now

	// viper carries config defaults, the config file, ALMAGEST_* env vars
	// and the bound flags below.
	viper *viper.Viper
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the almagest CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{viper: config.New()}

	cmd := &cobra.Command{
		Use:   "almagest",
		Short: "Almagest - chart positions, aspects and transits",
		Long: `Compute astrological chart positions, aspects, chart shapes, lunations,
eclipses and conjunctions from an analytic ephemeris.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if err := config.ReadFile(opts.viper, opts.ConfigFile); err != nil {
				return WrapExitError(ExitCommandError, "config", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&opts.ConfigFile, "config", "", "config file (default ./almagest.yaml)")
	pf.StringVar(&opts.Date, "date", "", "chart moment, RFC 3339 (default now)")
	pf.Float64("lat", 0, "observer latitude, degrees north")
	pf.Float64("lon", 0, "observer longitude, degrees east")
	pf.String("settings", "", "chart settings file (YAML)")
	pf.String("locale", "en", "language for object names")
	pf.String("log-level", "info", "log level (debug|info|warn|error)")

	for key, flag := range map[string]string{
		"observer.lat":  "lat",
		"observer.lon":  "lon",
		"settings_file": "settings",
		"locale":        "locale",
		"log_level":     "log-level",
	} {
		_ = opts.viper.BindPFlag(key, pf.Lookup(flag))
	}

	cmd.AddCommand(NewPositionsCommand(opts))
	cmd.AddCommand(NewAspectsCommand(opts))
	cmd.AddCommand(NewShapeCommand(opts))
	cmd.AddCommand(NewMoonCommand(opts))
	cmd.AddCommand(NewEclipseCommand(opts))
	cmd.AddCommand(NewConjunctionCommand(opts))
	cmd.AddCommand(NewTransitCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
