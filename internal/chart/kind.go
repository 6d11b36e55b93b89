package chart

import "fmt"

// Kind is the discriminant of an Index.
type Kind int

const (
	KindUnknown Kind = iota
	KindPlanet
	KindAsteroid
	KindAngle
	KindHouse
	KindPoint
	KindEclipse
	KindFixedStar
)

var kindNames = map[Kind]string{
	KindUnknown:   "unknown",
	KindPlanet:    "planet",
	KindAsteroid:  "asteroid",
	KindAngle:     "angle",
	KindHouse:     "house",
	KindPoint:     "point",
	KindEclipse:   "eclipse",
	KindFixedStar: "fixed_star",
}

// String returns the snake_case name used in JSON and settings files.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind resolves a kind name produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s && k != KindUnknown {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown kind %q", s)
}
