package chart

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Index identifies a chart object: a body, angle, house cusp, derived point,
// eclipse event or fixed star.
//
// Index is comparable and usable as a map key. The zero value is not a valid
// index (Kind() == KindUnknown). Build values with the constructors or the
// catalogue variables below; the kind is attached at construction and read
// back directly, never inferred from the numeric id.
type Index struct {
	kind Kind
	id   int
	star string
}

// Planets and bodies. Ids follow the conventional ephemeris numbering.
var (
	Sun     = Index{kind: KindPlanet, id: 0}
	Moon    = Index{kind: KindPlanet, id: 1}
	Mercury = Index{kind: KindPlanet, id: 2}
	Venus   = Index{kind: KindPlanet, id: 3}
	Mars    = Index{kind: KindPlanet, id: 4}
	Jupiter = Index{kind: KindPlanet, id: 5}
	Saturn  = Index{kind: KindPlanet, id: 6}
	Uranus  = Index{kind: KindPlanet, id: 7}
	Neptune = Index{kind: KindPlanet, id: 8}
	Pluto   = Index{kind: KindPlanet, id: 9}
	Chiron  = Index{kind: KindPlanet, id: 15}
	Pholus  = Index{kind: KindPlanet, id: 16}
	Ceres   = Index{kind: KindPlanet, id: 17}
	Pallas  = Index{kind: KindPlanet, id: 18}
	Juno    = Index{kind: KindPlanet, id: 19}
	Vesta   = Index{kind: KindPlanet, id: 20}
)

// Angles.
var (
	Asc  = Index{kind: KindAngle, id: 1}
	MC   = Index{kind: KindAngle, id: 2}
	Desc = Index{kind: KindAngle, id: 3}
	IC   = Index{kind: KindAngle, id: 4}
	ARMC = Index{kind: KindAngle, id: 5}
)

// Derived points.
var (
	NorthNode     = Index{kind: KindPoint, id: 1}
	SouthNode     = Index{kind: KindPoint, id: 2}
	TrueNorthNode = Index{kind: KindPoint, id: 3}
	TrueSouthNode = Index{kind: KindPoint, id: 4}
	Vertex        = Index{kind: KindPoint, id: 5}
	Lilith        = Index{kind: KindPoint, id: 6}
	TrueLilith    = Index{kind: KindPoint, id: 7}
	Syzygy        = Index{kind: KindPoint, id: 8}
	PartOfFortune = Index{kind: KindPoint, id: 9}
	PartOfSpirit  = Index{kind: KindPoint, id: 10}
	PartOfEros    = Index{kind: KindPoint, id: 11}
)

// Eclipse events relative to the chart moment.
var (
	PreNatalSolarEclipse  = Index{kind: KindEclipse, id: 1}
	PreNatalLunarEclipse  = Index{kind: KindEclipse, id: 2}
	PostNatalSolarEclipse = Index{kind: KindEclipse, id: 3}
	PostNatalLunarEclipse = Index{kind: KindEclipse, id: 4}
)

// Planets lists the ten classical chart bodies in conventional order.
var Planets = []Index{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}

var catalogue = []struct {
	idx Index
	key string
}{
	{Sun, "sun"}, {Moon, "moon"}, {Mercury, "mercury"}, {Venus, "venus"},
	{Mars, "mars"}, {Jupiter, "jupiter"}, {Saturn, "saturn"}, {Uranus, "uranus"},
	{Neptune, "neptune"}, {Pluto, "pluto"}, {Chiron, "chiron"}, {Pholus, "pholus"},
	{Ceres, "ceres"}, {Pallas, "pallas"}, {Juno, "juno"}, {Vesta, "vesta"},
	{Asc, "asc"}, {MC, "mc"}, {Desc, "desc"}, {IC, "ic"}, {ARMC, "armc"},
	{NorthNode, "north_node"}, {SouthNode, "south_node"},
	{TrueNorthNode, "true_north_node"}, {TrueSouthNode, "true_south_node"},
	{Vertex, "vertex"}, {Lilith, "lilith"}, {TrueLilith, "true_lilith"},
	{Syzygy, "syzygy"}, {PartOfFortune, "part_of_fortune"},
	{PartOfSpirit, "part_of_spirit"}, {PartOfEros, "part_of_eros"},
	{PreNatalSolarEclipse, "pre_natal_solar_eclipse"},
	{PreNatalLunarEclipse, "pre_natal_lunar_eclipse"},
	{PostNatalSolarEclipse, "post_natal_solar_eclipse"},
	{PostNatalLunarEclipse, "post_natal_lunar_eclipse"},
}

var (
	keyOf   = make(map[Index]string, len(catalogue))
	byKey   = make(map[string]Index, len(catalogue))
	isKnown = make(map[Index]bool, len(catalogue))
)

func init() {
	for _, c := range catalogue {
		keyOf[c.idx] = c.key
		byKey[c.key] = c.idx
		isKnown[c.idx] = true
	}
}

// House returns the index of house cusp n (1..12).
func House(n int) Index {
	return Index{kind: KindHouse, id: n}
}

// Houses returns the twelve house cusp indices in order.
func Houses() []Index {
	out := make([]Index, 12)
	for i := range out {
		out[i] = House(i + 1)
	}
	return out
}

// Asteroid returns the index of a numbered minor planet.
func Asteroid(number int) Index {
	return Index{kind: KindAsteroid, id: number}
}

// Star returns the index of a named fixed star. The name is resolved by the
// ephemeris catalogue, case-insensitively.
func Star(name string) Index {
	return Index{kind: KindFixedStar, star: strings.TrimSpace(name)}
}

// Kind returns the discriminant fixed at construction.
func (i Index) Kind() Kind { return i.kind }

// ID returns the numeric id within the kind. Fixed stars return 0.
func (i Index) ID() int { return i.id }

// StarName returns the catalogue name of a fixed star index, or "".
func (i Index) StarName() string { return i.star }

// IsZero reports whether i is the zero Index.
func (i Index) IsZero() bool { return i == (Index{}) }

// Valid reports whether i names an object this package knows how to label.
// Asteroids and stars are open-ended and always valid when well formed.
func (i Index) Valid() bool {
	switch i.kind {
	case KindAsteroid:
		return i.id > 0
	case KindHouse:
		return i.id >= 1 && i.id <= 12
	case KindFixedStar:
		return i.star != ""
	case KindUnknown:
		return false
	default:
		return isKnown[i]
	}
}

// Key returns the stable string form used in settings files, JSON output and
// cache keys.
func (i Index) Key() string {
	switch i.kind {
	case KindHouse:
		return "house_" + strconv.Itoa(i.id)
	case KindAsteroid:
		return "asteroid_" + strconv.Itoa(i.id)
	case KindFixedStar:
		return "star:" + i.star
	}
	if k, ok := keyOf[i]; ok {
		return k
	}
	return fmt.Sprintf("%s_%d", i.kind, i.id)
}

// String implements fmt.Stringer.
func (i Index) String() string { return i.Key() }

// MarshalText implements encoding.TextMarshaler so Index works as a JSON map key.
func (i Index) MarshalText() ([]byte, error) {
	if !i.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid index %s", i.Key())
	}
	return []byte(i.Key()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Index) UnmarshalText(b []byte) error {
	idx, err := ParseIndex(string(b))
	if err != nil {
		return err
	}
	*i = idx
	return nil
}

// Compare orders indices by kind, then id, then star name.
func Compare(a, b Index) int {
	if c := cmp.Compare(a.kind, b.kind); c != 0 {
		return c
	}
	if c := cmp.Compare(a.id, b.id); c != 0 {
		return c
	}
	return strings.Compare(a.star, b.star)
}

// ParseIndex resolves a textual index. It accepts catalogue keys ("sun",
// "part_of_fortune"), "house_N", "asteroid_N", "star:Name", legacy integer
// ids, and finally falls back to treating any other non-empty string as a
// fixed star name.
func ParseIndex(s string) (Index, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Index{}, fmt.Errorf("empty index")
	}
	lower := strings.ToLower(s)
	if idx, ok := byKey[lower]; ok {
		return idx, nil
	}
	if rest, ok := strings.CutPrefix(lower, "house_"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 || n > 12 {
			return Index{}, fmt.Errorf("invalid house %q", s)
		}
		return House(n), nil
	}
	if rest, ok := strings.CutPrefix(lower, "asteroid_"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			return Index{}, fmt.Errorf("invalid asteroid %q", s)
		}
		return Asteroid(n), nil
	}
	if strings.HasPrefix(lower, "star:") {
		return Star(s[len("star:"):]), nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		idx, ok := FromLegacy(n)
		if !ok {
			return Index{}, fmt.Errorf("legacy id %d is outside every known range", n)
		}
		return idx, nil
	}
	return Star(s), nil
}
