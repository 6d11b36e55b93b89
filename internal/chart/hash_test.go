package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionHashDeterminism(t *testing.T) {
	p := &Position{Index: Sun, Name: "Sun", Lon: 280.288371, Speed: 1.019, Dec: -23.0}

	h1, err := PositionHash(p)
	require.NoError(t, err)
	h2, err := PositionHash(p)
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "PositionHash must be deterministic")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestPositionHashChangesWithInput(t *testing.T) {
	base := Position{Index: Sun, Name: "Sun", Lon: 280.288371, Dec: math.NaN()}
	moved := base
	moved.Lon = 280.3
	renamed := base
	renamed.Name = "Sol"

	h1, err := PositionHash(&base)
	require.NoError(t, err)
	h2, err := PositionHash(&moved)
	require.NoError(t, err)
	h3, err := PositionHash(&renamed)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.NotEqual(t, h1, h3)
}

func TestChartHashIgnoresOrder(t *testing.T) {
	a := &Position{Index: Sun, Lon: 10}
	b := &Position{Index: Moon, Lon: 20}
	c := &Position{Index: House(1), Lon: 30, Size: 25}

	h1, err := ChartHash([]*Position{a, b, c})
	require.NoError(t, err)
	h2, err := ChartHash([]*Position{c, a, b})
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
}

func TestHashDomainSeparation(t *testing.T) {
	data := []byte(`{}`)
	assert.NotEqual(t, hashWithDomain(DomainPosition, data), hashWithDomain(DomainChart, data))
}

func TestQueryKeyFullPrecision(t *testing.T) {
	k1, err := QueryKey("body", Sun.Key(), 2451544.91666666)
	require.NoError(t, err)
	k2, err := QueryKey("body", Sun.Key(), 2451544.91666667)
	require.NoError(t, err)
	k3, err := QueryKey("body", Sun.Key(), 2451544.91666666)
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2, "instants 1e-8 day apart must not share a key")
	assert.Equal(t, k1, k3)
}
