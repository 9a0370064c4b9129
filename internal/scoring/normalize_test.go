package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMinMaxExact(t *testing.T) {
	raws := []float64{0.10, -0.05, 0.30, 0.02}

	out, degenerate := Normalize(raws)
	require.False(t, degenerate)
	require.Len(t, out, 4)

	// cohort max must land exactly on 1.0 and min exactly on 0.0
	assert.Equal(t, 1.0, out[2])
	assert.Equal(t, 0.0, out[1])

	for _, v := range out {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}

	// interior points keep their ordering
	assert.Greater(t, out[0], out[3])
}

func TestNormalizeDegenerateCohorts(t *testing.T) {
	// cohort of one
	out, degenerate := Normalize([]float64{0.42})
	assert.True(t, degenerate)
	assert.Equal(t, []float64{0.5}, out)

	// all-equal raws
	out, degenerate = Normalize([]float64{0.1, 0.1, 0.1})
	assert.True(t, degenerate)
	for _, v := range out {
		assert.Equal(t, 0.5, v)
	}

	// empty cohort
	out, degenerate = Normalize(nil)
	assert.True(t, degenerate)
	assert.Empty(t, out)
}

func TestNormalizeDeterministic(t *testing.T) {
	raws := []float64{3, 1, 2, 5, 4}
	a, _ := Normalize(raws)
	b, _ := Normalize(raws)
	assert.Equal(t, a, b)
}
