package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/almagest/internal/chart"
)

// Scenario defines a chart test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Settings is an optional chart settings file. Relative paths resolve
	// against the scenario file's directory.
	Settings string `yaml:"settings,omitempty"`

	// Moment is the chart time, RFC 3339 in UT. Mutually exclusive with
	// Positions.
	Moment string `yaml:"moment,omitempty"`

	// Observer is the geographic location used with Moment.
	Observer *Observer `yaml:"observer,omitempty"`

	// Objects lists the objects computed for Moment. Defaults to the
	// planets.
	Objects []string `yaml:"objects,omitempty"`

	// Positions fixes the chart objects directly.
	Positions []FixedPosition `yaml:"positions,omitempty"`

	// Assertions validate the computed chart.
	Assertions []Assertion `yaml:"assertions"`
}

// Observer is a geographic location in degrees, east longitude positive.
type Observer struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// FixedPosition is one explicitly placed object.
type FixedPosition struct {
	Object string  `yaml:"object"`
	Lon    float64 `yaml:"lon"`
	Lat    float64 `yaml:"lat,omitempty"`
	Speed  float64 `yaml:"speed"`
}

// Assertion validates the computed chart.
type Assertion struct {
	// Type specifies the assertion type:
	// - "aspect": Active and Passive form Aspect
	// - "no_aspect": Active and Passive form no aspect
	// - "aspect_count": the chart holds exactly Count aspects
	// - "shape": the chart shape is Shape
	// - "moon_phase": the Moon's phase is Phase
	// - "longitude": Object lies within Tolerance of Lon
	Type string `yaml:"type"`

	Active  string `yaml:"active,omitempty"`
	Passive string `yaml:"passive,omitempty"`

	// Aspect, Movement and Condition are matched when set (aspect).
	Aspect    string `yaml:"aspect,omitempty"`
	Movement  string `yaml:"movement,omitempty"`
	Condition string `yaml:"condition,omitempty"`

	// Count is the expected number of aspects (aspect_count).
	Count *int `yaml:"count,omitempty"`

	Shape string `yaml:"shape,omitempty"`
	Phase string `yaml:"phase,omitempty"`

	Object    string  `yaml:"object,omitempty"`
	Lon       float64 `yaml:"lon,omitempty"`
	Tolerance float64 `yaml:"tolerance,omitempty"`
}

// Assertion type constants.
const (
	AssertAspect      = "aspect"
	AssertNoAspect    = "no_aspect"
	AssertAspectCount = "aspect_count"
	AssertShape       = "shape"
	AssertMoonPhase   = "moon_phase"
	AssertLongitude   = "longitude"
)

// LoadScenario reads and parses a scenario YAML file. A relative settings
// path resolves against the directory holding the file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the settings path relative to basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Settings != "" && !filepath.IsAbs(scenario.Settings) && basePath != "" {
		scenario.Settings = filepath.Join(basePath, scenario.Settings)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	switch {
	case s.Moment == "" && len(s.Positions) == 0:
		return fmt.Errorf("one of moment or positions is required")
	case s.Moment != "" && len(s.Positions) > 0:
		return fmt.Errorf("moment and positions are mutually exclusive")
	}

	if s.Settings != "" {
		if _, err := os.Stat(s.Settings); os.IsNotExist(err) {
			return fmt.Errorf("settings file not found: %s", s.Settings)
		}
	}

	if s.Moment != "" {
		if _, err := time.Parse(time.RFC3339, s.Moment); err != nil {
			return fmt.Errorf("moment: %w", err)
		}
		for i, name := range s.Objects {
			if _, err := chart.ParseIndex(name); err != nil {
				return fmt.Errorf("objects[%d]: %w", i, err)
			}
		}
	} else if len(s.Objects) > 0 {
		return fmt.Errorf("objects only applies with moment")
	}

	if s.Observer != nil && (s.Observer.Lat <= -90 || s.Observer.Lat >= 90) {
		return fmt.Errorf("observer: latitude %v out of range", s.Observer.Lat)
	}

	seen := make(map[chart.Index]bool, len(s.Positions))
	for i, p := range s.Positions {
		if p.Object == "" {
			return fmt.Errorf("positions[%d]: object is required", i)
		}
		idx, err := chart.ParseIndex(p.Object)
		if err != nil {
			return fmt.Errorf("positions[%d]: %w", i, err)
		}
		if seen[idx] {
			return fmt.Errorf("positions[%d]: duplicate object %q", i, p.Object)
		}
		seen[idx] = true
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertAspect, AssertNoAspect:
		if a.Active == "" || a.Passive == "" {
			return fmt.Errorf("assertions[%d]: active and passive are required for %s", index, a.Type)
		}
		if a.Type == AssertAspect {
			if a.Aspect == "" {
				return fmt.Errorf("assertions[%d]: aspect is required for aspect", index)
			}
			if _, err := chart.ParseAspect(a.Aspect); err != nil {
				return fmt.Errorf("assertions[%d]: %w", index, err)
			}
		}
	case AssertAspectCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for aspect_count", index)
		}
	case AssertShape:
		if a.Shape == "" {
			return fmt.Errorf("assertions[%d]: shape is required for shape", index)
		}
	case AssertMoonPhase:
		if a.Phase == "" {
			return fmt.Errorf("assertions[%d]: phase is required for moon_phase", index)
		}
	case AssertLongitude:
		if a.Object == "" {
			return fmt.Errorf("assertions[%d]: object is required for longitude", index)
		}
		if a.Tolerance <= 0 {
			return fmt.Errorf("assertions[%d]: positive tolerance is required for longitude", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
