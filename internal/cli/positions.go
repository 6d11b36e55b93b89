package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/almagest/internal/angle"
	"github.com/roach88/almagest/internal/calc"
	"github.com/roach88/almagest/internal/chart"
)

// PositionRow is one object in the positions output.
type PositionRow struct {
	Object   string         `json:"object"`
	Name     string         `json:"name"`
	Lon      float64        `json:"lon"`
	Lat      float64        `json:"lat"`
	Speed    float64        `json:"speed"`
	Dec      *float64       `json:"dec,omitempty"`
	Sign     string         `json:"sign"`
	Zodiac   string         `json:"zodiac"`
	Movement chart.Movement `json:"movement"`
}

// PositionsResult is the output of the positions command.
type PositionsResult struct {
	JD        float64       `json:"jd"`
	Time      string        `json:"time"`
	Positions []PositionRow `json:"positions"`
}

// RenderText writes one line per object.
func (r PositionsResult) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "%s (JD %.6f)\n\n", r.Time, r.JD)
	for _, p := range r.Positions {
		fmt.Fprintf(w, "%-16s %-12s %10.4f %9.4f/d  %s\n", p.Name, p.Zodiac, p.Lon, p.Speed, p.Movement)
	}
	return nil
}

// NewPositionsCommand creates the positions command.
func NewPositionsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "positions [object...]",
		Short: "Print object positions",
		Long: `Print ecliptic positions for the chart moment and observer.

Objects are named by key (sun, moon, asc, house_10, part_of_fortune,
star:Regulus) or legacy number. Without arguments the ten planets plus
the Ascendant and Midheaven are shown.

Examples:
  almagest positions --date 2000-01-01T10:00:00Z --lat 32.72 --lon -117.16
  almagest positions sun moon north_node --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPositions(rootOpts, args, cmd)
		},
	}
}

func runPositions(opts *RootOptions, args []string, cmd *cobra.Command) error {
	indices, err := parseObjects(args, defaultObjects())
	if err != nil {
		return err
	}
	e, err := newEnv(opts, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	ps, err := e.positions(cmd.Context(), indices)
	if err != nil {
		return err
	}

	result := PositionsResult{JD: e.jd, Time: formatJD(e.jd), Positions: make([]PositionRow, len(ps))}
	for i, p := range ps {
		result.Positions[i] = e.positionRow(p)
	}
	return e.out.Success(result)
}

func (e *env) positionRow(p *chart.Position) PositionRow {
	row := PositionRow{
		Object:   p.Index.Key(),
		Name:     p.Name,
		Lon:      p.Lon,
		Lat:      p.Lat,
		Speed:    p.Speed,
		Sign:     e.names.Sign(calc.Sign(p)),
		Zodiac:   angle.FormatZodiac(p.Lon),
		Movement: calc.ObjectMovement(p),
	}
	if p.HasDec() {
		dec := p.Dec
		row.Dec = &dec
	}
	return row
}
