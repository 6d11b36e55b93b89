package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/almagest/internal/cache"
	"github.com/roach88/almagest/internal/chart"
	"github.com/roach88/almagest/internal/config"
	"github.com/roach88/almagest/internal/ephemeris"
	"github.com/roach88/almagest/internal/locale"
	"github.com/roach88/almagest/internal/logging"
	"github.com/roach88/almagest/internal/position"
	"github.com/roach88/almagest/internal/settings"
)

// env is the runtime shared by the chart commands for one invocation.
type env struct {
	cfg      config.Config
	logger   *zap.Logger
	names    *locale.Table
	settings *settings.Settings
	svc      *position.Service
	out      *OutputFormatter
	jd       float64

	metrics *prometheus.Registry
	closers []func() error
}

// newEnv builds the logger, settings, locale, cache and position service
// from the layered configuration.
func newEnv(opts *RootOptions, cmd *cobra.Command) (*env, error) {
	v := opts.viper
	if v == nil {
		v = config.New()
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "config", err)
	}

	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	logger, err := logging.New(cmd.ErrOrStderr(), level)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "config", err)
	}
	runID, err := uuid.NewV7()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "run id", err)
	}
	logger = logger.With(zap.String("run_id", runID.String()), zap.String("command", cmd.Name()))

	e := &env{
		cfg:    cfg,
		logger: logger,
		out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
			RunID:     runID.String(),
		},
	}

	if e.jd, err = parseDate(opts.Date); err != nil {
		return nil, err
	}

	e.settings = settings.Default()
	if cfg.SettingsFile != "" {
		if e.settings, err = settings.Load(cfg.SettingsFile); err != nil {
			return nil, WrapExitError(ExitCommandError, "settings", err)
		}
	}

	catalogue, err := locale.Embedded()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "locale", err)
	}
	e.names = catalogue.Match(cfg.Locale)

	regOpts := []cache.Option{cache.WithLogger(logger)}
	if cfg.Cache.Metrics {
		e.metrics = prometheus.NewRegistry()
		regOpts = append(regOpts, cache.WithMetrics(cache.NewMetrics(e.metrics)))
	}
	if cfg.Cache.Path != "" {
		tier, err := cache.OpenSQLite(cfg.Cache.Path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "cache", err)
		}
		e.closers = append(e.closers, tier.Close)
		regOpts = append(regOpts, cache.WithTier(tier))
	}

	e.svc = position.NewService(ephemeris.NewAnalytic(ephemeris.WithLogger(logger)),
		position.WithRegistry(cache.NewRegistry(regOpts...)),
		position.WithSettings(e.settings),
		position.WithLocale(e.names),
		position.WithLogger(logger),
		position.WithMaxIterations(cfg.Search.MaxIterations),
	)
	if err := e.svc.Bind(cmd.Context()); err != nil {
		e.close()
		return nil, WrapExitError(ExitCommandError, "cache", err)
	}

	logger.Debug("environment ready",
		zap.Float64("jd", e.jd),
		zap.String("settings_file", cfg.SettingsFile),
		zap.String("locale", cfg.Locale),
		zap.String("cache_path", cfg.Cache.Path))
	return e, nil
}

// parseDate converts an RFC 3339 moment to a Julian day in UT. Empty means
// now.
func parseDate(s string) (float64, error) {
	if s == "" {
		return ephemeris.JulianDay(time.Now().UTC()), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, "invalid --date", err)
	}
	return ephemeris.JulianDay(t.UTC()), nil
}

// query is the chart query for the configured moment and observer.
func (e *env) query() position.Query {
	return position.Query{JD: e.jd, Lat: e.cfg.Observer.Lat, Lon: e.cfg.Observer.Lon}
}

// positions resolves indices in order. Objects the service cannot resolve
// are logged and left out.
func (e *env) positions(ctx context.Context, indices []chart.Index) ([]*chart.Position, error) {
	found, err := e.svc.Batch(ctx, indices, e.query())
	if err != nil {
		return nil, e.fail(ErrCodeGeneric, "compute positions", err)
	}
	out := make([]*chart.Position, 0, len(indices))
	for _, idx := range indices {
		p, ok := found[idx]
		if !ok {
			e.logger.Warn("object not available", zap.Stringer("object", idx))
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// fail reports err through the formatter and returns the matching exit
// error.
func (e *env) fail(code, message string, err error) error {
	if errors.Is(err, position.ErrUnknownObject) {
		code = ErrCodeUnknownObject
	}
	_ = e.out.Error(code, fmt.Sprintf("%s: %v", message, err), nil)
	return WrapExitError(ExitCommandError, message, err)
}

// close releases the cache tier and flushes the logger. Cache counters are
// logged at debug when metrics are enabled.
func (e *env) close() {
	if e.metrics != nil {
		e.logMetrics()
	}
	for _, c := range e.closers {
		if err := c(); err != nil {
			e.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}

func (e *env) logMetrics() {
	families, err := e.metrics.Gather()
	if err != nil {
		e.logger.Warn("gather metrics", zap.Error(err))
		return
	}
	for _, mf := range families {
		var total float64
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		e.logger.Debug("cache metric", zap.String("name", mf.GetName()), zap.Float64("value", total))
	}
}

// parseObjects resolves object names, falling back to def when none are
// given.
func parseObjects(args []string, def []chart.Index) ([]chart.Index, error) {
	if len(args) == 0 {
		return def, nil
	}
	out := make([]chart.Index, 0, len(args))
	for _, a := range args {
		idx, err := chart.ParseIndex(a)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid object", err)
		}
		out = append(out, idx)
	}
	return out, nil
}

// defaultObjects is the planets plus the Ascendant and Midheaven.
func defaultObjects() []chart.Index {
	out := append([]chart.Index{}, chart.Planets...)
	return append(out, chart.Asc, chart.MC)
}

// formatJD renders a Julian day as a UTC timestamp to the minute.
func formatJD(jd float64) string {
	return ephemeris.Time(jd).UTC().Format("2006-01-02 15:04 MST")
}
