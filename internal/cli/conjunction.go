package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/almagest/internal/chart"
	"github.com/roach88/almagest/internal/transit"
)

// ConjunctionRow is one meeting found by the conjunction command. Error is
// set when refinement inside its bracket failed.
type ConjunctionRow struct {
	JD    float64 `json:"jd,omitempty"`
	Time  string  `json:"time,omitempty"`
	Error string  `json:"error,omitempty"`
}

// ConjunctionResult is the output of the conjunction command.
type ConjunctionResult struct {
	A            string           `json:"a"`
	B            string           `json:"b"`
	From         float64          `json:"from"`
	Conjunctions []ConjunctionRow `json:"conjunctions"`
}

// RenderText writes one line per meeting.
func (r ConjunctionResult) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "Next conjunctions of %s and %s after JD %.6f\n\n", r.A, r.B, r.From)
	for i, c := range r.Conjunctions {
		if c.Error != "" {
			fmt.Fprintf(w, "%d. not converged: %s\n", i+1, c.Error)
			continue
		}
		fmt.Fprintf(w, "%d. %s  JD %.6f\n", i+1, c.Time, c.JD)
	}
	return nil
}

// TransitOptions holds flags for the transit command.
type TransitOptions struct {
	*RootOptions
	Aspect   string
	Previous bool
}

// TransitResult is the output of the transit command.
type TransitResult struct {
	A      string  `json:"a"`
	B      string  `json:"b"`
	Aspect string  `json:"aspect"`
	From   float64 `json:"from"`
	JD     float64 `json:"jd"`
	Time   string  `json:"time"`
}

// RenderText writes the exact moment.
func (r TransitResult) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "%s %s %s: %s  JD %.6f\n", r.A, r.Aspect, r.B, r.Time, r.JD)
	return nil
}

// NewConjunctionCommand creates the conjunction command.
func NewConjunctionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "conjunction <a> <b>",
		Short: "Find the next conjunctions of two bodies",
		Long: `Find the next conjunctions of two bodies after the chart moment.

A slow outer pair seen around a retrograde loop can meet up to three
times; each meeting is listed in date order.

Examples:
  almagest conjunction jupiter saturn --date 2020-06-01T00:00:00Z`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConjunction(rootOpts, args, cmd)
		},
	}
}

// NewTransitCommand creates the transit command.
func NewTransitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "transit <a> <b>",
		Short: "Find when two objects next form an aspect",
		Long: `Find the moment two objects next (or, with --previous, last) form the
given aspect exactly.

Examples:
  almagest transit sun moon --aspect opposition
  almagest transit mars saturn --aspect square --previous`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransit(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Aspect, "aspect", "conjunction", "aspect to search for")
	cmd.Flags().BoolVar(&opts.Previous, "previous", false, "search backwards")

	return cmd
}

func parsePair(args []string) (chart.Index, chart.Index, error) {
	pair, err := parseObjects(args, nil)
	if err != nil {
		return chart.Index{}, chart.Index{}, err
	}
	if pair[0] == pair[1] {
		return chart.Index{}, chart.Index{}, NewExitError(ExitCommandError,
			fmt.Sprintf("%s cannot be paired with itself", pair[0]))
	}
	return pair[0], pair[1], nil
}

func runConjunction(opts *RootOptions, args []string, cmd *cobra.Command) error {
	a, b, err := parsePair(args)
	if err != nil {
		return err
	}
	e, err := newEnv(opts, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	roots, err := e.svc.Finder().NextConjunction(cmd.Context(), a, b, e.jd)
	if err != nil {
		return e.fail(ErrCodeSearch, "conjunction search", err)
	}

	result := ConjunctionResult{A: a.Key(), B: b.Key(), From: e.jd, Conjunctions: make([]ConjunctionRow, len(roots))}
	for i, r := range roots {
		if !r.OK() {
			e.logger.Warn("conjunction not converged", zap.Int("root", i), zap.Error(r.Err))
			result.Conjunctions[i] = ConjunctionRow{Error: r.Err.Error()}
			continue
		}
		result.Conjunctions[i] = ConjunctionRow{JD: r.JD, Time: formatJD(r.JD)}
	}
	return e.out.Success(result)
}

func runTransit(opts *TransitOptions, args []string, cmd *cobra.Command) error {
	a, b, err := parsePair(args)
	if err != nil {
		return err
	}
	target, err := chart.ParseAspect(opts.Aspect)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --aspect", err)
	}
	e, err := newEnv(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	search := e.svc.Finder().NextAspect
	if opts.Previous {
		search = e.svc.Finder().PreviousAspect
	}
	at, err := search(cmd.Context(), a, b, e.jd, target)
	if err != nil {
		if transit.IsIterationLimit(err) {
			e.logger.Warn("transit search hit the iteration limit",
				zap.Int("max_iterations", e.cfg.Search.MaxIterations))
		}
		return e.fail(ErrCodeSearch, "transit search", err)
	}

	return e.out.Success(TransitResult{
		A:      a.Key(),
		B:      b.Key(),
		Aspect: target.Key(),
		From:   e.jd,
		JD:     at,
		Time:   formatJD(at),
	})
}
