package mlp

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/netviz-ml/netviz/internal/activation"
	"github.com/netviz-ml/netviz/internal/initializer"
	"github.com/netviz-ml/netviz/internal/parallel"
)

// par splits per-unit work across cores for wide layers. Units only
// touch their own state in the forward and update passes, so the fanout
// is race-free.
var par = parallel.Default()

// Layer is an ordered, fixed-size collection of Units sharing one
// activation function and dropout rate.
//
// The unit order is the insertion order and never changes after
// construction. Every unit's weight vector has the length of the
// preceding layer; the first (input) layer carries no weights. A Layer
// is owned by exactly one Network, which serializes access.
type Layer struct {
	units       []*Unit
	name        string
	activation  activation.Type
	dropoutRate float64
	trainable   bool
	dropoutMask []bool
}

// NewLayer builds a layer from its configuration. Weights are left
// empty; the owning network initializes them once the predecessor size
// is known.
func NewLayer(cfg LayerConfig) *Layer {
	units := make([]*Unit, cfg.Size)
	for i := range units {
		units[i] = NewUnit(i)
	}

	mask := make([]bool, cfg.Size)
	for i := range mask {
		mask[i] = true
	}

	return &Layer{
		units:       units,
		name:        cfg.Name,
		activation:  cfg.Activation,
		dropoutRate: cfg.DropoutRate,
		trainable:   cfg.Trainable,
		dropoutMask: mask,
	}
}

// Size returns the number of units.
func (l *Layer) Size() int { return len(l.units) }

// Name returns the layer's display name.
func (l *Layer) Name() string { return l.name }

// SetName sets the layer's display name.
func (l *Layer) SetName(name string) { l.name = name }

// Activation returns the layer's activation kind.
func (l *Layer) Activation() activation.Type { return l.activation }

// SetActivation changes the layer's activation kind.
func (l *Layer) SetActivation(t activation.Type) { l.activation = t }

// DropoutRate returns the layer's dropout rate.
func (l *Layer) DropoutRate() float64 { return l.dropoutRate }

// SetDropoutRate sets the dropout rate, clamped to [0, 1].
func (l *Layer) SetDropoutRate(r float64) {
	if r < 0 {
		r = 0
	} else if r > 1 {
		r = 1
	}
	l.dropoutRate = r
}

// Trainable reports whether UpdateWeights touches the layer.
func (l *Layer) Trainable() bool { return l.trainable }

// SetTrainable marks the layer as trainable or frozen.
func (l *Layer) SetTrainable(t bool) { l.trainable = t }

// Unit returns the unit at index i, or nil when i is out of range.
func (l *Layer) Unit(i int) *Unit {
	if i < 0 || i >= len(l.units) {
		return nil
	}
	return l.units[i]
}

// Activations returns a copy of the units' activation values in unit order.
func (l *Layer) Activations() []float64 {
	out := make([]float64, len(l.units))
	for i, u := range l.units {
		out[i] = u.Activation()
	}
	return out
}

// SetActivations drives the units' activation values directly, as the
// network does for the input layer.
func (l *Layer) SetActivations(values []float64) error {
	if len(values) != len(l.units) {
		return fmt.Errorf("mlp: layer %q: set %d activations on %d units: %w",
			l.name, len(values), len(l.units), ErrDimensionMismatch)
	}
	for i, u := range l.units {
		u.SetActivation(values[i])
	}
	return nil
}

// Biases returns a copy of the units' biases in unit order.
func (l *Layer) Biases() []float64 {
	out := make([]float64, len(l.units))
	for i, u := range l.units {
		out[i] = u.Bias()
	}
	return out
}

// SetBiases sets every unit's bias.
func (l *Layer) SetBiases(values []float64) error {
	if len(values) != len(l.units) {
		return fmt.Errorf("mlp: layer %q: set %d biases on %d units: %w",
			l.name, len(values), len(l.units), ErrDimensionMismatch)
	}
	for i, u := range l.units {
		u.SetBias(values[i])
	}
	return nil
}

// Deltas returns a copy of the units' error signals in unit order.
func (l *Layer) Deltas() []float64 {
	out := make([]float64, len(l.units))
	for i, u := range l.units {
		out[i] = u.Delta()
	}
	return out
}

// WeightMatrix returns a copy of the incoming weights, one row per unit.
func (l *Layer) WeightMatrix() [][]float64 {
	out := make([][]float64, len(l.units))
	for i, u := range l.units {
		row := make([]float64, len(u.Weights()))
		copy(row, u.Weights())
		out[i] = row
	}
	return out
}

// SetWeightMatrix replaces every unit's incoming weights. The matrix
// must have one row per unit.
func (l *Layer) SetWeightMatrix(weights [][]float64) error {
	if len(weights) != len(l.units) {
		return fmt.Errorf("mlp: layer %q: set %d weight rows on %d units: %w",
			l.name, len(weights), len(l.units), ErrDimensionMismatch)
	}
	for i, u := range l.units {
		u.SetWeights(weights[i])
	}
	return nil
}

// WeightsDense returns the incoming weights as a units×fanIn dense
// matrix for consumers that want matrix views, such as the visualizer's
// weight heatmap. Returns nil for the input layer.
func (l *Layer) WeightsDense() *mat.Dense {
	if len(l.units) == 0 || len(l.units[0].Weights()) == 0 {
		return nil
	}

	fanIn := len(l.units[0].Weights())
	m := mat.NewDense(len(l.units), fanIn, nil)
	for i, u := range l.units {
		m.SetRow(i, u.Weights())
	}
	return m
}

// Forward computes every unit's weighted input from the previous layer's
// activations: weightedInput = Σ inputs[k] * weights[k]. Activations are
// not touched; ApplyActivation runs as a separate step.
func (l *Layer) Forward(inputs []float64) error {
	for _, u := range l.units {
		if len(u.Weights()) != len(inputs) {
			return fmt.Errorf("mlp: layer %q forward: %d inputs for %d weights: %w",
				l.name, len(inputs), len(u.Weights()), ErrDimensionMismatch)
		}
	}

	parallel.For(len(l.units), par, func(i int) {
		u := l.units[i]
		w := u.Weights()
		sum := 0.0
		for k, in := range inputs {
			sum += in * w[k]
		}
		u.SetWeightedInput(sum)
	})
	return nil
}

// ApplyActivation maps every unit's weighted input through the layer's
// activation function. Softmax is vector-valued and is computed once over
// the whole layer's (weightedInput + bias) vector; every other kind is
// applied per unit.
func (l *Layer) ApplyActivation() {
	if l.activation == activation.Softmax {
		logits := make([]float64, len(l.units))
		for i, u := range l.units {
			logits[i] = u.WeightedInput() + u.Bias()
		}

		soft := activation.SoftmaxVec(logits)
		for i, u := range l.units {
			u.SetActivation(soft[i])
		}
		return
	}

	f := l.activation.Apply
	for _, u := range l.units {
		u.ApplyActivation(f)
	}
}

// ApplyDropout draws a fresh Bernoulli(1 - rate) mask and applies
// inverted dropout: masked units are zeroed, survivors are scaled by
// 1/keep so the expected activation is unchanged. Outside training, or
// at rate 0, the mask is all-true and activations are untouched.
func (l *Layer) ApplyDropout(training bool, rng *rand.Rand) {
	if !training || l.dropoutRate <= 0 {
		for i := range l.dropoutMask {
			l.dropoutMask[i] = true
		}
		return
	}

	keep := 1 - l.dropoutRate
	for i, u := range l.units {
		l.dropoutMask[i] = rng.Float64() < keep
		if l.dropoutMask[i] {
			u.SetActivation(u.Activation() / keep)
		} else {
			u.SetActivation(0)
		}
	}
}

// ComputeGradients backpropagates the next layer's error into this one:
// delta_i = (Σ_j nextDeltas[j] * nextWeights[j][i]) * f'(preActivation_i).
func (l *Layer) ComputeGradients(nextDeltas []float64, nextWeights [][]float64) error {
	if len(nextDeltas) != len(nextWeights) {
		return fmt.Errorf("mlp: layer %q gradients: %d deltas for %d weight rows: %w",
			l.name, len(nextDeltas), len(nextWeights), ErrDimensionMismatch)
	}

	deriv := l.activation.Derivative
	for i, u := range l.units {
		sum := 0.0
		for j, d := range nextDeltas {
			if i >= len(nextWeights[j]) {
				return fmt.Errorf("mlp: layer %q gradients: weight row %d has %d entries, need %d: %w",
					l.name, j, len(nextWeights[j]), len(l.units), ErrDimensionMismatch)
			}
			sum += d * nextWeights[j][i]
		}

		u.SetDelta(sum * u.ActivationDerivative(deriv))
	}
	return nil
}

// UpdateWeights applies the SGD rule to every unit:
// weight_k -= lr * delta * prevActivations[k], bias -= lr * delta.
// A non-trainable layer is left untouched.
func (l *Layer) UpdateWeights(learningRate float64, prevActivations []float64) error {
	if !l.trainable {
		return nil
	}

	for _, u := range l.units {
		if len(u.Weights()) != len(prevActivations) {
			return fmt.Errorf("mlp: layer %q update: %d activations for %d weights: %w",
				l.name, len(prevActivations), len(u.Weights()), ErrDimensionMismatch)
		}
	}

	parallel.For(len(l.units), par, func(i int) {
		u := l.units[i]
		w := u.Weights()
		delta := u.Delta()
		for k := range w {
			w[k] -= learningRate * delta * prevActivations[k]
		}
		u.SetBias(u.Bias() - learningRate*delta)
	})
	return nil
}

// InitializeWeights re-derives every unit's incoming weight vector for a
// predecessor of prevSize units using the given scheme, and resets biases
// according to the scheme.
func (l *Layer) InitializeWeights(prevSize int, scheme initializer.Type, rng *rand.Rand) {
	draw := initializer.New(scheme, rng)
	fanOut := len(l.units)

	for _, u := range l.units {
		weights := make([]float64, prevSize)
		for k := range weights {
			weights[k] = draw(prevSize, fanOut)
		}
		u.SetWeights(weights)
		u.SetBias(scheme.Bias(rng))
	}
}

// Reset zeroes the transient state of every unit and clears the dropout
// mask. Weights and biases survive.
func (l *Layer) Reset() {
	for _, u := range l.units {
		u.Reset()
	}
	for i := range l.dropoutMask {
		l.dropoutMask[i] = true
	}
}
