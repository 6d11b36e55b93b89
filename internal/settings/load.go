package settings

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/almagest/internal/chart"
)

//go:embed schema.cue
var schemaCUE string

// ErrInvalid wraps every schema or value error found while loading.
var ErrInvalid = errors.New("invalid settings")

// defaultKey names the fallback entry in the orbs and rules tables.
const defaultKey = "default"

type fileSettings struct {
	Aspects     []string                      `yaml:"aspects"`
	OrbMode     string                        `yaml:"orb_mode"`
	ExactOrb    *float64                      `yaml:"exact_orb"`
	Orbs        map[string]map[string]float64 `yaml:"orbs"`
	Rules       map[string]fileRule           `yaml:"rules"`
	ChartShape  *fileShape                    `yaml:"chart_shape"`
	HouseSystem string                        `yaml:"house_system"`
	PartFormula string                        `yaml:"part_formula"`
}

type fileRule struct {
	Initiate *[]string `yaml:"initiate"`
	Receive  *[]string `yaml:"receive"`
}

type fileShape struct {
	Orb     *float64 `yaml:"orb"`
	Objects []string `yaml:"objects"`
}

// Load reads and validates a settings file. Fields the file omits keep
// their defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse validates YAML settings against the embedded schema and overlays
// them on Default().
func Parse(data []byte) (*Settings, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if raw == nil {
		return Default(), nil
	}
	if err := validate(raw); err != nil {
		return nil, err
	}

	var f fileSettings
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	s := Default()
	if err := f.apply(s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return s, nil
}

func validate(raw any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile settings schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Settings"))
	v := def.Unify(ctx.Encode(raw))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, cueerrors.Details(err, nil))
	}
	return nil
}

func (f *fileSettings) apply(s *Settings) error {
	if f.Aspects != nil {
		aspects, err := parseAspects(f.Aspects)
		if err != nil {
			return err
		}
		s.Aspects = aspects
	}
	if f.OrbMode != "" {
		s.OrbMode = OrbMode(f.OrbMode)
	}
	if f.ExactOrb != nil {
		s.ExactOrb = *f.ExactOrb
	}

	for key, orbs := range f.Orbs {
		table := s.DefaultOrbs
		if key != defaultKey {
			idx, err := chart.ParseIndex(key)
			if err != nil {
				return fmt.Errorf("orbs: %w", err)
			}
			if s.Orbs[idx] == nil {
				s.Orbs[idx] = make(map[chart.AspectAngle]float64, len(orbs))
			}
			table = s.Orbs[idx]
		}
		for name, orb := range orbs {
			a, err := chart.ParseAspect(name)
			if err != nil {
				return fmt.Errorf("orbs.%s: %w", key, err)
			}
			table[a] = orb
		}
	}

	// The default rule is applied first so per-object entries start from it.
	if r, ok := f.Rules[defaultKey]; ok {
		rule, err := r.overlay(s.DefaultRule)
		if err != nil {
			return fmt.Errorf("rules.default: %w", err)
		}
		s.DefaultRule = rule
	}
	for key, r := range f.Rules {
		if key == defaultKey {
			continue
		}
		idx, err := chart.ParseIndex(key)
		if err != nil {
			return fmt.Errorf("rules: %w", err)
		}
		rule, err := r.overlay(s.Rule(idx))
		if err != nil {
			return fmt.Errorf("rules.%s: %w", key, err)
		}
		s.Rules[idx] = rule
	}

	if f.ChartShape != nil {
		if f.ChartShape.Orb != nil {
			s.ShapeOrb = *f.ChartShape.Orb
		}
		if f.ChartShape.Objects != nil {
			objs := make([]chart.Index, 0, len(f.ChartShape.Objects))
			for _, name := range f.ChartShape.Objects {
				idx, err := chart.ParseIndex(name)
				if err != nil {
					return fmt.Errorf("chart_shape.objects: %w", err)
				}
				objs = append(objs, idx)
			}
			s.ShapeObjects = objs
		}
	}

	if f.HouseSystem != "" {
		s.HouseSystem = chart.HouseSystem(f.HouseSystem)
	}
	if f.PartFormula != "" {
		s.PartFormula = chart.PartFormula(f.PartFormula)
	}
	return nil
}

func (r fileRule) overlay(base Rule) (Rule, error) {
	out := base.clone()
	if r.Initiate != nil {
		a, err := parseAspects(*r.Initiate)
		if err != nil {
			return Rule{}, err
		}
		out.Initiate = a
	}
	if r.Receive != nil {
		a, err := parseAspects(*r.Receive)
		if err != nil {
			return Rule{}, err
		}
		out.Receive = a
	}
	return out, nil
}

func parseAspects(names []string) ([]chart.AspectAngle, error) {
	out := make([]chart.AspectAngle, 0, len(names))
	for _, n := range names {
		a, err := chart.ParseAspect(n)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
