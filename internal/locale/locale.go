// Package locale holds the display-name tables for chart objects, aspects,
// signs, shapes and lunar phases. Tables are static TOML data embedded in
// the binary; nothing in them is executed.
package locale

import (
	"embed"
	"fmt"
	"path"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/almagest/internal/chart"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Gender is the grammatical gender of a name.
type Gender string

const (
	Masculine Gender = "masculine"
	Feminine  Gender = "feminine"
)

// Table is one language's names. Lookups for keys the table lacks fall
// back to the key itself.
type Table struct {
	Tag language.Tag

	house    string
	asteroid string
	objects  map[string]string
	aspects  map[string]string
	shapes   map[string]string
	phases   map[string]string
	signs    []string
	genders  map[string]Gender
}

type tableFile struct {
	Language string            `toml:"language"`
	House    string            `toml:"house"`
	Asteroid string            `toml:"asteroid"`
	Objects  map[string]string `toml:"objects"`
	Aspects  map[string]string `toml:"aspects"`
	Shapes   map[string]string `toml:"shapes"`
	Phases   map[string]string `toml:"phases"`
	Signs    struct {
		Names []string `toml:"names"`
	} `toml:"signs"`
	Genders map[string]string `toml:"genders"`
}

// Parse reads a TOML locale table. All names are NFC-normalised.
func Parse(data []byte) (*Table, error) {
	var f tableFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing locale table: %w", err)
	}
	tag, err := language.Parse(f.Language)
	if err != nil {
		return nil, fmt.Errorf("locale table language %q: %w", f.Language, err)
	}
	if len(f.Signs.Names) != 12 {
		return nil, fmt.Errorf("locale table %s: want 12 sign names, got %d", tag, len(f.Signs.Names))
	}
	t := &Table{
		Tag:      tag,
		house:    orDefault(f.House, "House %d"),
		asteroid: orDefault(f.Asteroid, "Asteroid %d"),
		objects:  nfcMap(f.Objects),
		aspects:  nfcMap(f.Aspects),
		shapes:   nfcMap(f.Shapes),
		phases:   nfcMap(f.Phases),
		genders:  make(map[string]Gender, len(f.Genders)),
	}
	for _, s := range f.Signs.Names {
		t.signs = append(t.signs, norm.NFC.String(s))
	}
	for k, g := range f.Genders {
		switch Gender(g) {
		case Masculine, Feminine:
			t.genders[k] = Gender(g)
		default:
			return nil, fmt.Errorf("locale table %s: unknown gender %q for %s", tag, g, k)
		}
	}
	return t, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return norm.NFC.String(s)
}

func nfcMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = norm.NFC.String(v)
	}
	return out
}

// Object returns the display name of idx.
func (t *Table) Object(idx chart.Index) string {
	switch idx.Kind() {
	case chart.KindHouse:
		return fmt.Sprintf(t.house, idx.ID())
	case chart.KindAsteroid:
		return fmt.Sprintf(t.asteroid, idx.ID())
	case chart.KindFixedStar:
		return norm.NFC.String(idx.StarName())
	}
	return lookup(t.objects, idx.Key())
}

// Aspect returns the display name of a.
func (t *Table) Aspect(a chart.AspectAngle) string { return lookup(t.aspects, a.Key()) }

// Shape returns the display name of s.
func (t *Table) Shape(s chart.Shape) string { return lookup(t.shapes, string(s)) }

// Phase returns the display name of p.
func (t *Table) Phase(p chart.MoonPhase) string { return lookup(t.phases, p.String()) }

// Sign returns the name of zodiac sign i (0 = Aries).
func (t *Table) Sign(i int) string {
	if i < 0 || i >= len(t.signs) {
		return ""
	}
	return t.signs[i]
}

// Gender returns the grammatical gender of the object or aspect named by
// key. Keys without an entry are masculine.
func (t *Table) Gender(key string) Gender {
	if g, ok := t.genders[key]; ok {
		return g
	}
	return Masculine
}

func lookup(m map[string]string, key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return key
}

// Catalogue is the set of embedded tables with a language matcher over them.
type Catalogue struct {
	tables  []*Table
	matcher language.Matcher
}

// Embedded loads every embedded table. English is the fallback for
// requests no table matches.
func Embedded() (*Catalogue, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("reading embedded locales: %w", err)
	}
	var tables []*Table
	for _, e := range entries {
		data, err := localeFS.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		t, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		if t.Tag == language.English {
			tables = append([]*Table{t}, tables...)
		} else {
			tables = append(tables, t)
		}
	}
	return NewCatalogue(tables...), nil
}

// NewCatalogue builds a catalogue; the first table is the fallback.
func NewCatalogue(tables ...*Table) *Catalogue {
	tags := make([]language.Tag, len(tables))
	for i, t := range tables {
		tags[i] = t.Tag
	}
	return &Catalogue{tables: tables, matcher: language.NewMatcher(tags)}
}

// Match returns the table that best serves the requested language, given
// as a BCP 47 tag or an Accept-Language style list ("es-MX, en;q=0.8").
func (c *Catalogue) Match(requested string) *Table {
	tags, _, err := language.ParseAcceptLanguage(strings.TrimSpace(requested))
	if err != nil || len(tags) == 0 {
		return c.tables[0]
	}
	_, i, _ := c.matcher.Match(tags...)
	return c.tables[i]
}

// Languages lists the catalogue's tags, fallback first.
func (c *Catalogue) Languages() []language.Tag {
	out := make([]language.Tag, len(c.tables))
	for i, t := range c.tables {
		out[i] = t.Tag
	}
	return out
}

// English returns the embedded English table. It panics if the embedded
// data is broken, which tests rule out.
func English() *Table {
	c, err := Embedded()
	if err != nil {
		panic(err)
	}
	return c.tables[0]
}
