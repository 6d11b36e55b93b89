package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/almagest/internal/aspect"
	"github.com/roach88/almagest/internal/chart"
	"github.com/roach88/almagest/internal/pattern"
)

// AspectRow is one aspect in the aspects output.
type AspectRow struct {
	Active     string              `json:"active"`
	Passive    string              `json:"passive"`
	Aspect     string              `json:"aspect"`
	Name       string              `json:"name"`
	Orb        float64             `json:"orb"`
	Distance   float64             `json:"distance"`
	Difference float64             `json:"difference"`
	Movement   chart.MovementPhase `json:"movement"`
	Condition  chart.Condition     `json:"condition"`
}

// AspectsResult is the output of the aspects command.
type AspectsResult struct {
	JD      float64     `json:"jd"`
	Time    string      `json:"time"`
	Aspects []AspectRow `json:"aspects"`
}

// RenderText writes one line per aspect.
func (r AspectsResult) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "%s (JD %.6f)\n\n", r.Time, r.JD)
	if len(r.Aspects) == 0 {
		fmt.Fprintln(w, "No aspects.")
		return nil
	}
	for _, a := range r.Aspects {
		fmt.Fprintf(w, "%-12s %-13s %-12s %+6.2f  %s, %s\n",
			a.Active, a.Name, a.Passive, a.Difference, a.Movement, a.Condition)
	}
	return nil
}

// ShapeResult is the output of the shape command.
type ShapeResult struct {
	JD      float64     `json:"jd"`
	Time    string      `json:"time"`
	Shape   chart.Shape `json:"shape"`
	Name    string      `json:"name"`
	Objects []string    `json:"objects"`
}

// RenderText writes the shape name.
func (r ShapeResult) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "%s (JD %.6f)\n", r.Time, r.JD)
	fmt.Fprintf(w, "Shape: %s\n", r.Name)
	return nil
}

// NewAspectsCommand creates the aspects command.
func NewAspectsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "aspects [object...]",
		Short: "Print the aspects among chart objects",
		Long: `Detect aspects among chart objects using the active settings.

Without arguments the ten planets plus the Ascendant and Midheaven are
compared. Aspects are listed by ascending angle.

Examples:
  almagest aspects --date 2000-01-01T10:00:00Z
  almagest aspects sun moon venus mars --settings tight.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAspects(rootOpts, args, cmd)
		},
	}
}

// NewShapeCommand creates the shape command.
func NewShapeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shape",
		Short: "Classify the chart shape",
		Long: `Classify the chart into one of the seven Jones shapes (bundle, bowl,
bucket, locomotive, seesaw, splay, splash) from the shape objects and orb
of the active settings.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShape(rootOpts, cmd)
		},
	}
}

func runAspects(opts *RootOptions, args []string, cmd *cobra.Command) error {
	indices, err := parseObjects(args, defaultObjects())
	if err != nil {
		return err
	}
	e, err := newEnv(opts, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	result, err := e.aspects(cmd.Context(), indices)
	if err != nil {
		return err
	}
	return e.out.Success(result)
}

// aspects computes the chart aspects among indices with the service's
// current settings.
func (e *env) aspects(ctx context.Context, indices []chart.Index) (AspectsResult, error) {
	ps, err := e.positions(ctx, indices)
	if err != nil {
		return AspectsResult{}, err
	}

	found := aspect.New(e.svc.Settings()).Chart(ps)
	result := AspectsResult{JD: e.jd, Time: formatJD(e.jd), Aspects: make([]AspectRow, len(found))}
	for i, a := range found {
		result.Aspects[i] = AspectRow{
			Active:     a.Active.Key(),
			Passive:    a.Passive.Key(),
			Aspect:     a.Angle.Key(),
			Name:       e.names.Aspect(a.Angle),
			Orb:        a.Orb,
			Distance:   a.Distance,
			Difference: a.Difference,
			Movement:   a.Phase,
			Condition:  a.Condition,
		}
	}
	e.logger.Debug("aspects computed", zap.Int("count", len(found)))
	return result, nil
}

func runShape(opts *RootOptions, cmd *cobra.Command) error {
	e, err := newEnv(opts, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	st := e.svc.Settings()
	ps, err := e.positions(cmd.Context(), st.ShapeObjects)
	if err != nil {
		return err
	}

	shape := pattern.ForSettings(ps, st)
	result := ShapeResult{
		JD:      e.jd,
		Time:    formatJD(e.jd),
		Shape:   shape,
		Name:    e.names.Shape(shape),
		Objects: make([]string, len(ps)),
	}
	for i, p := range ps {
		result.Objects[i] = p.Index.Key()
	}
	return e.out.Success(result)
}
