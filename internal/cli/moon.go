package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/almagest/internal/calc"
	"github.com/roach88/almagest/internal/chart"
	"github.com/roach88/almagest/internal/transit"
)

// EventRow is a dated search result.
type EventRow struct {
	Event string  `json:"event"`
	JD    float64 `json:"jd"`
	Time  string  `json:"time"`
	Type  string  `json:"type,omitempty"`
}

// MoonResult is the output of the moon command.
type MoonResult struct {
	JD        float64    `json:"jd"`
	Time      string     `json:"time"`
	Phase     string     `json:"phase"`
	PhaseName string     `json:"phase_name"`
	Events    []EventRow `json:"events"`
}

// RenderText writes the current phase then the surrounding lunations.
func (r MoonResult) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "%s (JD %.6f)\n", r.Time, r.JD)
	fmt.Fprintf(w, "Phase: %s\n\n", r.PhaseName)
	writeEvents(w, r.Events)
	return nil
}

// EventsResult is the output of the eclipse command.
type EventsResult struct {
	JD     float64    `json:"jd"`
	Time   string     `json:"time"`
	Events []EventRow `json:"events"`
}

// RenderText writes one line per event.
func (r EventsResult) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "%s (JD %.6f)\n\n", r.Time, r.JD)
	writeEvents(w, r.Events)
	return nil
}

func writeEvents(w io.Writer, events []EventRow) {
	for _, ev := range events {
		line := fmt.Sprintf("%-24s %s  JD %.6f", ev.Event, ev.Time, ev.JD)
		if ev.Type != "" {
			line += "  " + ev.Type
		}
		fmt.Fprintln(w, line)
	}
}

// NewMoonCommand creates the moon command.
func NewMoonCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "moon",
		Short: "Print the moon phase and surrounding lunations",
		Long: `Print the lunar phase at the chart moment together with the previous
and next new and full moons.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMoon(rootOpts, cmd)
		},
	}
}

// NewEclipseCommand creates the eclipse command.
func NewEclipseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "eclipse",
		Short: "Print the eclipses around the chart moment",
		Long: `Print the previous and next solar and lunar eclipses around the chart
moment with their primary type (total, annular, partial, ...).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEclipse(rootOpts, cmd)
		},
	}
}

// search is one dated search run by searchAll.
type search struct {
	event string
	run   func(ctx context.Context, jd float64) (float64, string, error)
}

// searchAll runs the searches concurrently from jd. Results keep the order
// of searches.
func searchAll(ctx context.Context, jd float64, searches []search) ([]EventRow, error) {
	out := make([]EventRow, len(searches))
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range searches {
		g.Go(func() error {
			at, kind, err := s.run(ctx, jd)
			if err != nil {
				return fmt.Errorf("%s: %w", s.event, err)
			}
			out[i] = EventRow{Event: s.event, JD: at, Time: formatJD(at), Type: kind}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func lunation(fn func(context.Context, float64) (float64, error)) func(context.Context, float64) (float64, string, error) {
	return func(ctx context.Context, jd float64) (float64, string, error) {
		at, err := fn(ctx, jd)
		return at, "", err
	}
}

func eclipse(fn func(context.Context, float64) (transit.Eclipse, error)) func(context.Context, float64) (float64, string, error) {
	return func(ctx context.Context, jd float64) (float64, string, error) {
		ev, err := fn(ctx, jd)
		return ev.JD, string(ev.Type), err
	}
}

func runMoon(opts *RootOptions, cmd *cobra.Command) error {
	e, err := newEnv(opts, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	ctx := cmd.Context()
	ps, err := e.positions(ctx, []chart.Index{chart.Sun, chart.Moon})
	if err != nil {
		return err
	}
	if len(ps) != 2 {
		return e.fail(ErrCodeGeneric, "moon phase", fmt.Errorf("sun or moon unavailable"))
	}
	phase := calc.MoonPhase(ps[0], ps[1])

	f := e.svc.Finder()
	events, err := searchAll(ctx, e.jd, []search{
		{"previous new moon", lunation(f.PreviousNewMoon)},
		{"previous full moon", lunation(f.PreviousFullMoon)},
		{"next new moon", lunation(f.NextNewMoon)},
		{"next full moon", lunation(f.NextFullMoon)},
	})
	if err != nil {
		return e.fail(ErrCodeSearch, "lunation search", err)
	}

	return e.out.Success(MoonResult{
		JD:        e.jd,
		Time:      formatJD(e.jd),
		Phase:     phase.String(),
		PhaseName: e.names.Phase(phase),
		Events:    events,
	})
}

func runEclipse(opts *RootOptions, cmd *cobra.Command) error {
	e, err := newEnv(opts, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	f := e.svc.Finder()
	events, err := searchAll(cmd.Context(), e.jd, []search{
		{"previous solar eclipse", eclipse(f.PreviousSolarEclipse)},
		{"previous lunar eclipse", eclipse(f.PreviousLunarEclipse)},
		{"next solar eclipse", eclipse(f.NextSolarEclipse)},
		{"next lunar eclipse", eclipse(f.NextLunarEclipse)},
	})
	if err != nil {
		return e.fail(ErrCodeSearch, "eclipse search", err)
	}
	return e.out.Success(EventsResult{JD: e.jd, Time: formatJD(e.jd), Events: events})
}
