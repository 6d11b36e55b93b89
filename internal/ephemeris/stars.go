package ephemeris

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/almagest/internal/angle"
)

//go:embed stars.yaml
var starsYAML []byte

// Star is one catalogue entry.
type Star struct {
	Name      string  `yaml:"name"`
	Lon       float64 `yaml:"lon"`
	Lat       float64 `yaml:"lat"`
	Magnitude float64 `yaml:"mag"`
}

// Catalogue is a fixed-star table keyed by lower-case name.
type Catalogue struct {
	stars map[string]Star
}

// ParseCatalogue reads a YAML list of stars.
func ParseCatalogue(data []byte) (*Catalogue, error) {
	var list []Star
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse star catalogue: %w", err)
	}
	c := &Catalogue{stars: make(map[string]Star, len(list))}
	for i, s := range list {
		if s.Name == "" {
			return nil, fmt.Errorf("star catalogue entry %d: missing name", i)
		}
		key := strings.ToLower(s.Name)
		if _, dup := c.stars[key]; dup {
			return nil, fmt.Errorf("star catalogue: duplicate star %q", s.Name)
		}
		c.stars[key] = s
	}
	return c, nil
}

// DefaultCatalogue returns the embedded catalogue.
func DefaultCatalogue() *Catalogue {
	c, err := ParseCatalogue(starsYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup finds a star by name, case-insensitively.
func (c *Catalogue) Lookup(name string) (Star, bool) {
	s, ok := c.stars[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// Names lists catalogue star names in alphabetical order.
func (c *Catalogue) Names() []string {
	out := make([]string, 0, len(c.stars))
	for _, s := range c.stars {
		out = append(out, s.Name)
	}
	sort.Strings(out)
	return out
}

// precessionRate is the general precession in degrees per day.
const precessionRate = 5029.0966 / 3600 / daysPerCentury

// starPosition precesses a J2000 entry to the equinox of date.
func starPosition(s Star, T float64) Coordinates {
	dpsi, _ := nutationDeg(T)
	return Coordinates{
		Lon:      angle.Norm(s.Lon + precession(T) + dpsi),
		Lat:      s.Lat,
		LonSpeed: precessionRate,
	}
}
