package activation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
)

// TestTypeOrdinals pins the serialized ordinals. Saved networks depend
// on these values; a failure here means a format break.
func TestTypeOrdinals(t *testing.T) {
	assert.Equal(t, 0, int(None))
	assert.Equal(t, 1, int(ReLU))
	assert.Equal(t, 2, int(Sigmoid))
	assert.Equal(t, 3, int(Tanh))
	assert.Equal(t, 4, int(LeakyReLU))
	assert.Equal(t, 5, int(ELU))
	assert.Equal(t, 6, int(Swish))
	assert.Equal(t, 7, int(GELU))
	assert.Equal(t, 8, int(Softmax))
}

func TestApply_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		x    float64
		want float64
	}{
		{"identity passes through", None, 3.5, 3.5},
		{"relu positive", ReLU, 2.0, 2.0},
		{"relu negative", ReLU, -2.0, 0.0},
		{"leaky relu negative", LeakyReLU, -1.0, -0.01},
		{"leaky relu positive", LeakyReLU, 1.0, 1.0},
		{"sigmoid at zero", Sigmoid, 0.0, 0.5},
		{"tanh at zero", Tanh, 0.0, 0.0},
		{"elu positive", ELU, 1.5, 1.5},
		{"elu negative", ELU, -1.0, math.Exp(-1) - 1},
		{"swish at zero", Swish, 0.0, 0.0},
		{"gelu at zero", GELU, 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.typ.Apply(tt.x), 1e-12)
		})
	}
}

// TestSigmoid_Range checks that sigmoid stays in [0, 1] and survives
// arguments far beyond the clamp threshold.
func TestSigmoid_Range(t *testing.T) {
	for _, x := range []float64{-1e9, -750, -500, -10, 0, 10, 500, 750, 1e9} {
		y := Sigmoid.Apply(x)
		require.False(t, math.IsNaN(y), "sigmoid(%g) is NaN", x)
		assert.GreaterOrEqual(t, y, 0.0)
		assert.LessOrEqual(t, y, 1.0)
	}
}

func TestReLU_NonNegative(t *testing.T) {
	for x := -10.0; x <= 10.0; x += 0.37 {
		assert.GreaterOrEqual(t, ReLU.Apply(x), 0.0)
	}
}

// TestDerivative_MatchesFiniteDifference compares every smooth
// activation's analytic derivative with a central finite difference.
// Sample points avoid the ReLU-family kink at 0.
func TestDerivative_MatchesFiniteDifference(t *testing.T) {
	types := []Type{None, ReLU, Sigmoid, Tanh, LeakyReLU, ELU, Swish, GELU}
	points := []float64{-2.3, -0.7, 0.4, 1.1, 2.9}

	for _, typ := range types {
		for _, x := range points {
			numeric := fd.Derivative(typ.Apply, x, &fd.Settings{
				Formula: fd.Central,
				Step:    1e-6,
			})
			assert.InDelta(t, numeric, typ.Derivative(x), 1e-4,
				"%s'(%g)", typ, x)
		}
	}
}

func TestSoftmaxVec(t *testing.T) {
	t.Run("sums to one", func(t *testing.T) {
		out := SoftmaxVec([]float64{1, 2, 3, 4})
		require.Len(t, out, 4)
		assert.InDelta(t, 1.0, floats.Sum(out), 1e-12)
	})

	t.Run("preserves order", func(t *testing.T) {
		out := SoftmaxVec([]float64{0.1, 2.5, -1.0})
		assert.Equal(t, 1, floats.MaxIdx(out))
	})

	t.Run("stable for large logits", func(t *testing.T) {
		out := SoftmaxVec([]float64{1000, 1001, 1002})
		for i, v := range out {
			require.False(t, math.IsNaN(v), "index %d", i)
			require.False(t, math.IsInf(v, 0), "index %d", i)
		}
		assert.InDelta(t, 1.0, floats.Sum(out), 1e-12)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, SoftmaxVec(nil))
	})
}

func TestString(t *testing.T) {
	assert.Equal(t, "relu", ReLU.String())
	assert.Equal(t, "softmax", Softmax.String())
	assert.Equal(t, "unknown", Type(99).String())
}
