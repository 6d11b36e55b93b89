package angle

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	secondsPerDegree = decimal.NewFromInt(3600)
	secondsPerMinute = decimal.NewFromInt(60)
)

// DMS is an angle split into sexagesimal parts. Seconds are kept as a
// decimal so rounding never yields 60".
type DMS struct {
	Negative bool
	Deg      int
	Min      int
	Sec      decimal.Decimal
	places   int32
}

// ToDMS splits deg into degrees, minutes and seconds rounded to places
// decimals. Carries propagate upwards (59.9996" rounds into the next minute).
func ToDMS(deg float64, places int32) DMS {
	total := decimal.NewFromFloat(math.Abs(deg)).Mul(secondsPerDegree).Round(places)
	d := total.Div(secondsPerDegree).Floor()
	rest := total.Sub(d.Mul(secondsPerDegree))
	m := rest.Div(secondsPerMinute).Floor()
	s := rest.Sub(m.Mul(secondsPerMinute))
	return DMS{
		Negative: deg < 0 && !total.IsZero(),
		Deg:      int(d.IntPart()),
		Min:      int(m.IntPart()),
		Sec:      s,
		places:   places,
	}
}

// String formats as 12°34'56.78".
func (d DMS) String() string {
	sign := ""
	if d.Negative {
		sign = "-"
	}
	return fmt.Sprintf("%s%d°%02d'%s\"", sign, d.Deg, d.Min, padSeconds(d.Sec.StringFixed(d.places)))
}

func padSeconds(s string) string {
	if len(s) == 1 || (len(s) > 1 && s[1] == '.') {
		return "0" + s
	}
	return s
}

var signAbbrev = [12]string{"Ari", "Tau", "Gem", "Can", "Leo", "Vir", "Lib", "Sco", "Sag", "Cap", "Aqu", "Pis"}

// FormatZodiac formats a longitude as degrees and minutes within its sign,
// e.g. 280.2884 -> "10°17' Cap". Rounding up to 30° carries into the next
// sign.
func FormatZodiac(lon float64) string {
	minutes := decimal.NewFromFloat(Norm(lon)).Mul(secondsPerMinute).Round(0)
	total := int(minutes.IntPart()) % (360 * 60)
	sign := total / (30 * 60)
	within := total % (30 * 60)
	return fmt.Sprintf("%d°%02d' %s", within/60, within%60, signAbbrev[sign])
}

// SignAbbrev returns the three-letter abbreviation of zodiac sign i (0..11).
func SignAbbrev(i int) string {
	return signAbbrev[((i%12)+12)%12]
}
