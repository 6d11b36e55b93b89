package harness

import (
	"fmt"
	"math"

	"github.com/roach88/almagest/internal/angle"
	"github.com/roach88/almagest/internal/chart"
)

// EvaluateAssertions checks every assertion against result and returns one
// message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertAspect:
		return assertAspect(result, a)
	case AssertNoAspect:
		return assertNoAspect(result, a)
	case AssertAspectCount:
		if len(result.Aspects) != *a.Count {
			return fmt.Errorf("expected %d aspects, got %d", *a.Count, len(result.Aspects))
		}
	case AssertShape:
		if string(result.Shape) != a.Shape {
			return fmt.Errorf("expected shape %s, got %s", a.Shape, result.Shape)
		}
	case AssertMoonPhase:
		if result.MoonPhase == 0 {
			return fmt.Errorf("chart has no Sun and Moon")
		}
		if result.MoonPhase.String() != a.Phase {
			return fmt.Errorf("expected phase %s, got %s", a.Phase, result.MoonPhase)
		}
	case AssertLongitude:
		return assertLongitude(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func assertAspect(result *Result, a Assertion) error {
	active, passive, err := pair(a)
	if err != nil {
		return err
	}
	asp := result.AspectBetween(active, passive)
	if asp == nil {
		return fmt.Errorf("no aspect between %s and %s", active, passive)
	}
	want, err := chart.ParseAspect(a.Aspect)
	if err != nil {
		return err
	}
	if asp.Angle != want {
		return fmt.Errorf("expected %s, got %s", want, asp.Angle)
	}
	if asp.Active != active {
		return fmt.Errorf("expected %s active, got %s", active, asp.Active)
	}
	if a.Movement != "" && string(asp.Phase) != a.Movement {
		return fmt.Errorf("expected movement %s, got %s", a.Movement, asp.Phase)
	}
	if a.Condition != "" && string(asp.Condition) != a.Condition {
		return fmt.Errorf("expected condition %s, got %s", a.Condition, asp.Condition)
	}
	return nil
}

func assertNoAspect(result *Result, a Assertion) error {
	active, passive, err := pair(a)
	if err != nil {
		return err
	}
	if asp := result.AspectBetween(active, passive); asp != nil {
		return fmt.Errorf("unexpected %s between %s and %s", asp.Angle, active, passive)
	}
	return nil
}

func assertLongitude(result *Result, a Assertion) error {
	idx, err := chart.ParseIndex(a.Object)
	if err != nil {
		return err
	}
	p := result.Position(idx)
	if p == nil {
		return fmt.Errorf("%s not in chart", idx)
	}
	if d := angle.Distance(p.Lon, a.Lon); d > a.Tolerance || math.IsNaN(d) {
		return fmt.Errorf("expected %s at %.4f ± %g, got %.4f", idx, a.Lon, a.Tolerance, p.Lon)
	}
	return nil
}

func pair(a Assertion) (chart.Index, chart.Index, error) {
	active, err := chart.ParseIndex(a.Active)
	if err != nil {
		return chart.Index{}, chart.Index{}, err
	}
	passive, err := chart.ParseIndex(a.Passive)
	if err != nil {
		return chart.Index{}, chart.Index{}, err
	}
	return active, passive, nil
}
