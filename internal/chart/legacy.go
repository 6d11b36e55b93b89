package chart

// Legacy integer ids pack the kind into disjoint numeric ranges. They are only
// decoded here, once, at the boundary; nothing else in almagest looks at the
// ranges.
const (
	legacyAsteroidOffset = 10_000
	legacyHouseOffset    = 2_000_000
	legacyPointOffset    = 3_000_000
	legacyEclipseOffset  = 4_000_000
	legacyAngleOffset    = 9_000_000
	legacyRangeSize      = 1_000_000
)

// FromLegacy decodes a legacy integer id. It reports false for any value
// outside every known range, or inside a range but naming nothing.
func FromLegacy(n int) (Index, bool) {
	var idx Index
	switch {
	case n < 0:
		return Index{}, false
	case n < legacyAsteroidOffset:
		idx = Index{kind: KindPlanet, id: n}
	case n < legacyHouseOffset:
		idx = Asteroid(n - legacyAsteroidOffset)
	case n < legacyHouseOffset+legacyRangeSize:
		idx = House(n - legacyHouseOffset)
	case n < legacyPointOffset+legacyRangeSize:
		idx = Index{kind: KindPoint, id: n - legacyPointOffset}
	case n < legacyEclipseOffset+legacyRangeSize:
		idx = Index{kind: KindEclipse, id: n - legacyEclipseOffset}
	case n >= legacyAngleOffset && n < legacyAngleOffset+legacyRangeSize:
		idx = Index{kind: KindAngle, id: n - legacyAngleOffset}
	default:
		return Index{}, false
	}
	if !idx.Valid() {
		return Index{}, false
	}
	return idx, true
}

// Legacy encodes i as a legacy integer id. Fixed stars have no integer form.
func (i Index) Legacy() (int, bool) {
	if !i.Valid() {
		return 0, false
	}
	switch i.kind {
	case KindPlanet:
		return i.id, true
	case KindAsteroid:
		return legacyAsteroidOffset + i.id, true
	case KindHouse:
		return legacyHouseOffset + i.id, true
	case KindPoint:
		return legacyPointOffset + i.id, true
	case KindEclipse:
		return legacyEclipseOffset + i.id, true
	case KindAngle:
		return legacyAngleOffset + i.id, true
	default:
		return 0, false
	}
}
