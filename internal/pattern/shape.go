// Package pattern classifies the overall shape of a chart from the spread
// of its bodies around the zodiac.
package pattern

import (
	"slices"

	"github.com/roach88/almagest/internal/angle"
	"github.com/roach88/almagest/internal/chart"
	"github.com/roach88/almagest/internal/settings"
)

// ChartShape classifies the positions whose index is listed in objects,
// allowing orb degrees of tolerance on every threshold.
func ChartShape(positions []*chart.Position, objects []chart.Index, orb float64) chart.Shape {
	lons := make([]float64, 0, len(objects))
	for _, p := range positions {
		if slices.Contains(objects, p.Index) {
			lons = append(lons, p.Lon)
		}
	}
	return Classify(lons, orb)
}

// ForSettings classifies positions with the shape objects and orb of s.
func ForSettings(positions []*chart.Position, s *settings.Settings) chart.Shape {
	return ChartShape(positions, s.ShapeObjects, s.ShapeOrb)
}

// Classify classifies a set of longitudes. The order of lons does not
// matter. Fewer than two longitudes always form a Bundle.
func Classify(lons []float64, orb float64) chart.Shape {
	if len(lons) < 2 {
		return chart.Bundle
	}
	gaps := Gaps(lons)
	n := len(gaps)
	maxGap := slices.Max(gaps)

	if maxGap >= 240-orb {
		return chart.Bundle
	}

	// A handle: one body, or a tight pair, alone across two wide gaps.
	for i, g := range gaps {
		next, after := gaps[(i+1)%n], gaps[(i+2)%n]
		if g >= 90-orb && (next >= 90-orb || (next <= orb && after >= 90-orb)) {
			return chart.Bucket
		}
	}

	switch {
	case maxGap >= 180-orb:
		return chart.Bowl
	case maxGap >= 120-orb:
		return chart.Locomotive
	}

	sorted := slices.Clone(gaps)
	slices.Sort(sorted)
	switch {
	case countAtLeast(sorted, 60-orb) == 2:
		return chart.Seesaw
	case countAtLeast(sorted, 30-orb) == 3:
		return chart.Splay
	}
	return chart.Splash
}

// Gaps returns the forward distance from each longitude, in ascending
// order, to the next one around the circle.
func Gaps(lons []float64) []float64 {
	sorted := make([]float64, len(lons))
	for i, l := range lons {
		sorted[i] = angle.Norm(l)
	}
	slices.Sort(sorted)
	gaps := make([]float64, len(sorted))
	for i, l := range sorted {
		gaps[i] = angle.Diff(sorted[(i+1)%len(sorted)], l)
	}
	return gaps
}

// countAtLeast counts values of an ascending slice that are ≥ threshold.
func countAtLeast(sorted []float64, threshold float64) int {
	i, _ := slices.BinarySearch(sorted, threshold)
	return len(sorted) - i
}
