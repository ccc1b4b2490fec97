package mlp

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netviz-ml/netviz/internal/activation"
	"github.com/netviz-ml/netviz/internal/initializer"
)

func newTestLayer(size int, act activation.Type) *Layer {
	return NewLayer(LayerConfig{Size: size, Activation: act, Trainable: true})
}

func TestLayer_Forward(t *testing.T) {
	l := newTestLayer(2, activation.None)
	require.NoError(t, l.SetWeightMatrix([][]float64{
		{1, 2, 3},
		{0, -1, 1},
	}))

	require.NoError(t, l.Forward([]float64{1, 1, 1}))

	assert.Equal(t, 6.0, l.Unit(0).WeightedInput())
	assert.Equal(t, 0.0, l.Unit(1).WeightedInput())
}

func TestLayer_Forward_DimensionMismatch(t *testing.T) {
	l := newTestLayer(2, activation.None)
	require.NoError(t, l.SetWeightMatrix([][]float64{{1, 2}, {3, 4}}))

	err := l.Forward([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestLayer_ApplyActivation_PerUnit(t *testing.T) {
	l := newTestLayer(2, activation.ReLU)
	l.Unit(0).SetWeightedInput(-3)
	l.Unit(1).SetWeightedInput(2)
	l.Unit(1).SetBias(1)

	l.ApplyActivation()

	assert.Equal(t, 0.0, l.Unit(0).Activation())
	assert.Equal(t, 3.0, l.Unit(1).Activation())
}

// TestLayer_ApplyActivation_Softmax checks that softmax runs once over
// the whole layer's pre-activation vector rather than per unit.
func TestLayer_ApplyActivation_Softmax(t *testing.T) {
	l := newTestLayer(3, activation.Softmax)
	l.Unit(0).SetWeightedInput(1)
	l.Unit(1).SetWeightedInput(2)
	l.Unit(2).SetWeightedInput(3)

	l.ApplyActivation()

	sum := 0.0
	for i := 0; i < 3; i++ {
		sum += l.Unit(i).Activation()
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.Greater(t, l.Unit(2).Activation(), l.Unit(0).Activation())
}

// TestLayer_ApplyDropout_Statistics runs many passes and checks that
// roughly rate of the units are zeroed while survivors are scaled by
// 1/keep, so the expected activation is preserved.
func TestLayer_ApplyDropout_Statistics(t *testing.T) {
	const (
		size   = 200
		passes = 200
		rate   = 0.4
	)

	l := NewLayer(LayerConfig{Size: size, Activation: activation.None, DropoutRate: rate, Trainable: true})
	rng := rand.New(rand.NewSource(11))

	dropped := 0
	activationSum := 0.0

	for p := 0; p < passes; p++ {
		for i := 0; i < size; i++ {
			l.Unit(i).SetActivation(1)
		}

		l.ApplyDropout(true, rng)

		for i := 0; i < size; i++ {
			a := l.Unit(i).Activation()
			if a == 0 {
				dropped++
			} else {
				assert.InDelta(t, 1/(1-rate), a, 1e-12)
			}
			activationSum += a
		}
	}

	total := float64(size * passes)
	assert.InDelta(t, rate, float64(dropped)/total, 0.02)
	// Inverted dropout preserves the expected activation.
	assert.InDelta(t, 1.0, activationSum/total, 0.02)
}

func TestLayer_ApplyDropout_Inference(t *testing.T) {
	l := NewLayer(LayerConfig{Size: 5, Activation: activation.None, DropoutRate: 0.9, Trainable: true})
	rng := rand.New(rand.NewSource(12))

	for i := 0; i < 5; i++ {
		l.Unit(i).SetActivation(0.7)
	}

	l.ApplyDropout(false, rng)

	for i := 0; i < 5; i++ {
		assert.Equal(t, 0.7, l.Unit(i).Activation())
	}
}

func TestLayer_ComputeGradients(t *testing.T) {
	l := newTestLayer(2, activation.None)
	l.Unit(0).SetWeightedInput(1)
	l.Unit(1).SetWeightedInput(1)

	// Next layer: 2 units, weight rows indexed by this layer's units.
	nextDeltas := []float64{0.5, -1}
	nextWeights := [][]float64{
		{1, 2},
		{3, 4},
	}

	require.NoError(t, l.ComputeGradients(nextDeltas, nextWeights))

	// Identity activation: derivative 1.
	assert.InDelta(t, 0.5*1+(-1)*3, l.Unit(0).Delta(), 1e-12)
	assert.InDelta(t, 0.5*2+(-1)*4, l.Unit(1).Delta(), 1e-12)
}

func TestLayer_ComputeGradients_DimensionMismatch(t *testing.T) {
	l := newTestLayer(2, activation.None)

	err := l.ComputeGradients([]float64{1}, [][]float64{{1, 2}, {3, 4}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	err = l.ComputeGradients([]float64{1}, [][]float64{{1}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestLayer_UpdateWeights(t *testing.T) {
	l := newTestLayer(1, activation.None)
	require.NoError(t, l.SetWeightMatrix([][]float64{{1, 1}}))
	l.Unit(0).SetBias(0.5)
	l.Unit(0).SetDelta(2)

	require.NoError(t, l.UpdateWeights(0.1, []float64{1, 3}))

	// w_k -= lr * delta * prev_k; bias -= lr * delta.
	assert.InDelta(t, 1-0.1*2*1, l.Unit(0).Weight(0), 1e-12)
	assert.InDelta(t, 1-0.1*2*3, l.Unit(0).Weight(1), 1e-12)
	assert.InDelta(t, 0.5-0.1*2, l.Unit(0).Bias(), 1e-12)
}

func TestLayer_UpdateWeights_NotTrainable(t *testing.T) {
	l := NewLayer(LayerConfig{Size: 1, Activation: activation.None, Trainable: false})
	require.NoError(t, l.SetWeightMatrix([][]float64{{1}}))
	l.Unit(0).SetDelta(5)

	require.NoError(t, l.UpdateWeights(0.1, []float64{1}))

	assert.Equal(t, 1.0, l.Unit(0).Weight(0))
	assert.Zero(t, l.Unit(0).Bias())
}

func TestLayer_InitializeWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(13))

	l := newTestLayer(4, activation.ReLU)
	l.InitializeWeights(6, initializer.Xavier, rng)

	for i := 0; i < 4; i++ {
		u := l.Unit(i)
		require.Len(t, u.Weights(), 6)
		assert.Zero(t, u.Bias())
	}

	l.InitializeWeights(3, initializer.One, rng)
	for i := 0; i < 4; i++ {
		u := l.Unit(i)
		require.Len(t, u.Weights(), 3)
		assert.Equal(t, []float64{1, 1, 1}, u.Weights())
		assert.Equal(t, 1.0, u.Bias())
	}
}

func TestLayer_WeightsDense(t *testing.T) {
	l := newTestLayer(2, activation.None)
	require.NoError(t, l.SetWeightMatrix([][]float64{{1, 2, 3}, {4, 5, 6}}))

	m := l.WeightsDense()
	require.NotNil(t, m)

	rows, cols := m.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, 5.0, m.At(1, 1))

	// Input layers carry no weights.
	assert.Nil(t, newTestLayer(2, activation.None).WeightsDense())
}
