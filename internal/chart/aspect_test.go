package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAspectNames(t *testing.T) {
	assert.Equal(t, "sextile", Sextile.String())
	assert.Equal(t, "septile", AspectAngle(360.0/7).String())
	assert.Equal(t, "17°", AspectAngle(17).String())

	for _, a := range AllAspects() {
		back, err := ParseAspect(a.Key())
		require.NoError(t, err)
		assert.Equal(t, a, back)
	}

	_, err := ParseAspect("decile")
	assert.Error(t, err)
}

func TestAllAspectsAscending(t *testing.T) {
	all := AllAspects()
	require.Len(t, all, 12)
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i], all[i-1])
	}
}

func TestAspectOther(t *testing.T) {
	a := &Aspect{Active: Moon, Passive: Sun}
	assert.True(t, a.Involves(Sun))
	assert.False(t, a.Involves(Mars))
	assert.Equal(t, Sun, a.Other(Moon))
	assert.Equal(t, Moon, a.Other(Sun))
}
