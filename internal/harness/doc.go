// Package harness runs chart scenarios and compares their output with
// golden snapshots.
//
// A scenario either fixes the positions of its objects or names a moment
// and an observer, in which case positions come from the position service
// over an ephemeris. The harness then detects aspects, classifies the chart
// shape and evaluates the scenario's assertions.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: grand_cross
//	description: "What this scenario validates"
//	settings: settings/tight.yaml   # optional, relative to the scenario file
//	positions:
//	  - {object: sun, lon: 29.6, speed: 1.0}
//	  - {object: moon, lon: 150.9, speed: 13.2}
//	assertions:
//	  - type: aspect
//	    active: moon
//	    passive: sun
//	    aspect: trine
//	    movement: separative
//	  - type: shape
//	    shape: bucket
//
// or, computed from an ephemeris:
//
//	name: san_diego_2000
//	description: "Sun and Moon on 2000-01-01"
//	moment: "2000-01-01T10:00:00Z"
//	observer: {lat: 32.716667, lon: -117.15}
//	objects: [sun, moon]
//	assertions:
//	  - type: longitude
//	    object: sun
//	    lon: 280.29
//	    tolerance: 0.05
//
// Exactly one of positions and moment is required. Objects default to the
// ten planets when a moment is given.
//
// # Assertion Types
//
//   - aspect: active and passive form the named aspect, optionally with the
//     given movement and condition
//   - no_aspect: the two objects form no aspect
//   - aspect_count: the chart holds exactly count aspects
//   - shape: the chart shape
//   - moon_phase: the Moon's phase from the Sun
//   - longitude: an object's longitude, within tolerance
//
// # Golden Snapshots
//
// RunWithGolden serializes positions, aspects, shape and phase with
// chart.MarshalCanonical and compares them with
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
