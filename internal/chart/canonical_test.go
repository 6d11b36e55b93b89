package chart

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Key ordering
// ============================================================================

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{"b": 1, "a": 2, "c": 3})
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"b":1,"c":3}`, string(got))
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	// U+1F600 encodes as the surrogate pair D83D DE00, which sorts before
	// U+E000 in UTF-16 even though its UTF-8 form sorts after.
	got, err := MarshalCanonical(map[string]any{"\uE000": 1, "\U0001F600": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uE000\":1}", string(got))
}

// ============================================================================
// Scalars
// ============================================================================

func TestMarshalCanonicalFloats(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"integer", 280, "280.000000"},
		{"rounded", 280.28837088863213, "280.288371"},
		{"negative", -0.5, "-0.500000"},
		{"negative zero", math.Copysign(0, -1), "0.000000"},
		{"tiny negative rounds to zero", -1e-9, "0.000000"},
		{"nan", math.NaN(), "null"},
		{"inf", math.Inf(1), "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	got, err := MarshalCanonical("<a&b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a&b>"`, string(got))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "e" + combining acute composes to U+00E9.
	got, err := MarshalCanonical("Mise\u0301ricorde")
	require.NoError(t, err)
	assert.Equal(t, "\"Mis\u00e9ricorde\"", string(got))
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	got, err := MarshalCanonical("a\u2028b")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(got))

	got, err = MarshalCanonical(`a\u2028b`)
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028b"`, string(got), "escaped backslash text stays escaped")
}

func TestMarshalCanonicalNamedTypes(t *testing.T) {
	got, err := MarshalCanonical([]any{Retrograde, Sextile, FullMoon, Sun})
	require.NoError(t, err)
	assert.Equal(t, `["retrograde",60.000000,225,"sun"]`, string(got))
}

func TestMarshalCanonicalUnsupported(t *testing.T) {
	_, err := MarshalCanonical(struct{}{})
	assert.Error(t, err)
}

// ============================================================================
// Records
// ============================================================================

func TestMarshalCanonicalPosition(t *testing.T) {
	p := &Position{
		Index: Moon,
		Name:  "Moon",
		Lon:   222.321422,
		Lat:   -1.5,
		Dist:  0.0026,
		Speed: 12.4,
		Dec:   math.NaN(),
	}

	got, err := MarshalCanonical(p)
	require.NoError(t, err)
	assert.Equal(t,
		`{"dec":null,"dist":0.002600,"index":"moon","kind":"planet","lat":-1.500000,"lon":222.321422,"name":"Moon","speed":12.400000}`,
		string(got))
}

func TestMarshalCanonicalEclipsePosition(t *testing.T) {
	p := &Position{Index: PreNatalSolarEclipse, Lon: 138.5, Dec: 15, EclipseType: EclipseTotal, JD: 2451401.96}

	m := PositionMap(p)
	assert.Equal(t, "total", m["eclipse_type"])
	assert.Equal(t, 2451401.96, m["jd"])
	assert.NotContains(t, m, "size")
}

func TestPositionJSONNullDeclination(t *testing.T) {
	p := Position{Index: Asc, Name: "Asc", Lon: 10, Dec: math.NaN()}
	data, err := p.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dec":null`)
	assert.Contains(t, string(data), `"index":"asc"`)
}

func TestPositionJSONRoundTrip(t *testing.T) {
	in := &Position{Index: Moon, Name: "Moon", Lon: 222.321, Speed: 12.5, Dec: math.NaN()}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Position
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, Moon, out.Index)
	assert.Equal(t, 222.321, out.Lon)
	assert.True(t, math.IsNaN(out.Dec))

	in.Dec = -11.5
	data, err = json.Marshal(in)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, -11.5, out.Dec)
}
