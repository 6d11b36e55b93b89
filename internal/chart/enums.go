package chart

import "fmt"

// Movement classifies apparent motion along the ecliptic.
type Movement string

const (
	Direct     Movement = "direct"
	Retrograde Movement = "retrograde"
	Stationary Movement = "stationary"
)

// RelativePosition is an object's placement relative to the Sun.
type RelativePosition string

const (
	Oriental   RelativePosition = "oriental"
	Occidental RelativePosition = "occidental"
)

// EclipseType is the primary type of an eclipse, with centrality masked off.
type EclipseType string

const (
	EclipseNone         EclipseType = ""
	EclipseTotal        EclipseType = "total"
	EclipseAnnular      EclipseType = "annular"
	EclipseAnnularTotal EclipseType = "annular_total"
	EclipsePartial      EclipseType = "partial"
	EclipsePenumbral    EclipseType = "penumbral"
)

// Shape is the overall geometric pattern of a chart.
type Shape string

const (
	Bundle     Shape = "bundle"
	Bucket     Shape = "bucket"
	Bowl       Shape = "bowl"
	Locomotive Shape = "locomotive"
	Seesaw     Shape = "seesaw"
	Splay      Shape = "splay"
	Splash     Shape = "splash"
)

// MoonPhase is one of eight 45° lunation phases. The value is the upper bound
// of the Sun→Moon elongation bin the phase covers.
type MoonPhase int

const (
	NewMoon       MoonPhase = 45
	Crescent      MoonPhase = 90
	FirstQuarter  MoonPhase = 135
	Gibbous       MoonPhase = 180
	FullMoon      MoonPhase = 225
	Disseminating MoonPhase = 270
	LastQuarter   MoonPhase = 315
	Balsamic      MoonPhase = 360
)

// MoonPhases lists the phases in elongation order.
var MoonPhases = []MoonPhase{NewMoon, Crescent, FirstQuarter, Gibbous, FullMoon, Disseminating, LastQuarter, Balsamic}

var moonPhaseNames = map[MoonPhase]string{
	NewMoon:       "new_moon",
	Crescent:      "crescent",
	FirstQuarter:  "first_quarter",
	Gibbous:       "gibbous",
	FullMoon:      "full_moon",
	Disseminating: "disseminating",
	LastQuarter:   "last_quarter",
	Balsamic:      "balsamic",
}

func (p MoonPhase) String() string {
	if s, ok := moonPhaseNames[p]; ok {
		return s
	}
	return fmt.Sprintf("moon_phase(%d)", int(p))
}

// HouseSystem selects a house division method.
type HouseSystem string

const (
	Placidus      HouseSystem = "placidus"
	Porphyry      HouseSystem = "porphyry"
	Regiomontanus HouseSystem = "regiomontanus"
	Equal         HouseSystem = "equal"
	WholeSign     HouseSystem = "whole_sign"
)

// HouseSystems lists every supported house system.
var HouseSystems = []HouseSystem{Placidus, Porphyry, Regiomontanus, Equal, WholeSign}

// PartFormula selects how Arabic parts are computed.
type PartFormula string

const (
	// PartDay always uses the day formula.
	PartDay PartFormula = "day"
	// PartNight always uses the night formula.
	PartNight PartFormula = "night"
	// PartSect picks day or night from the Sun's position above or below
	// the horizon.
	PartSect PartFormula = "sect"
)
