package angle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDMS(t *testing.T) {
	tests := []struct {
		name   string
		deg    float64
		places int32
		want   string
	}{
		{"whole", 12, 0, `12°00'00"`},
		{"fractional", 12.5825, 0, `12°34'57"`},
		{"with decimals", 32.716667, 1, `32°43'00.0"`},
		{"carry into degree", 29.99999, 0, `30°00'00"`},
		{"negative", -117.15, 0, `-117°09'00"`},
		{"negative rounds to zero", -0.00001, 0, `0°00'00"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToDMS(tt.deg, tt.places).String())
		})
	}
}

func TestToDMSParts(t *testing.T) {
	d := ToDMS(280.288371, 2)
	assert.False(t, d.Negative)
	assert.Equal(t, 280, d.Deg)
	assert.Equal(t, 17, d.Min)
	assert.Equal(t, "18.14", d.Sec.StringFixed(2))
}

func TestFormatZodiac(t *testing.T) {
	tests := []struct {
		lon  float64
		want string
	}{
		{280.2884, "10°17' Cap"},
		{222.3214, "12°19' Sco"},
		{0, "0°00' Ari"},
		{29.9999, "0°00' Tau"},
		{359.9999, "0°00' Ari"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatZodiac(tt.lon))
	}
}

func TestSignAbbrev(t *testing.T) {
	assert.Equal(t, "Ari", SignAbbrev(0))
	assert.Equal(t, "Pis", SignAbbrev(-1))
	assert.Equal(t, "Cap", SignAbbrev(21))
}
