package ephemeris

import (
	"math"

	"github.com/soniakeys/meeus/v3/eclipse"
)

const (
	newMoonEpoch = 2451550.09766 // first new moon of 2000, JDE
	synodicMonth = 29.530588861

	// lunationsPerYear converts a lunation number to the decimal year the
	// eclipse series is indexed by.
	lunationsPerYear = 12.3685
)

// maxLunations bounds eclipse search; eclipse seasons recur every ~6
// lunations, so this is never reached for valid input.
const maxLunations = 200

type eclipseEvent struct {
	flags EclipseFlags
	jdUT  float64
}

// eclipseAt evaluates lunation k (integer for new moon, +0.5 for full moon)
// and reports the eclipse there, if any.
func eclipseAt(k float64, lunar bool) (eclipseEvent, bool) {
	year := 2000 + k/lunationsPerYear

	var flags EclipseFlags
	var jdMax float64
	if lunar {
		var kind int
		kind, jdMax, _, _, _, _, _, _, _ = eclipse.Lunar(year)
		flags = lunarFlags(kind)
	} else {
		var kind int
		var central bool
		kind, central, jdMax, _, _, _, _ = eclipse.Solar(year)
		flags = solarFlags(kind, central)
	}
	if flags == 0 {
		return eclipseEvent{}, false
	}
	return eclipseEvent{flags: flags, jdUT: jdMax - DeltaT(jdMax)/secondsPerDay}, true
}

func solarFlags(kind int, central bool) EclipseFlags {
	var f EclipseFlags
	switch kind {
	case eclipse.Partial:
		return FlagPartial
	case eclipse.Total:
		f = FlagTotal
	case eclipse.Annular:
		f = FlagAnnular
	case eclipse.AnnularTotal:
		f = FlagAnnularTotal
	default:
		return 0
	}
	if central {
		return f | FlagCentral
	}
	return f | FlagNonCentral
}

func lunarFlags(kind int) EclipseFlags {
	switch kind {
	case eclipse.Total:
		return FlagTotal
	case eclipse.Umbral:
		return FlagPartial
	case eclipse.Penumbral:
		return FlagPenumbral
	default:
		return 0
	}
}

// searchEclipse walks lunations from jd until an eclipse strictly before
// (backward) or after jd is found.
func searchEclipse(jd float64, lunar, backward bool) (eclipseEvent, bool) {
	k := math.Floor((jd - newMoonEpoch) / synodicMonth)
	if lunar {
		k += 0.5
	}
	step := 1.0
	if backward {
		k++
		step = -1
	} else {
		k--
	}
	for range maxLunations {
		if ev, ok := eclipseAt(k, lunar); ok {
			if (backward && ev.jdUT < jd) || (!backward && ev.jdUT > jd) {
				return ev, true
			}
		}
		k += step
	}
	return eclipseEvent{}, false
}
