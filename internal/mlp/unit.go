package mlp

// Unit is a single computational node of a layer.
//
// It carries the scalar state touched by forward and backward passes
// (activation, bias, weighted input, gradient, delta) and the vector of
// incoming weights, one per unit of the preceding layer. Units of the
// input layer carry no weights and are driven directly by external
// input. A Unit is owned by exactly one Layer and is not safe for
// concurrent use on its own; the owning Network serializes access.
type Unit struct {
	id            int
	name          string
	activation    float64
	bias          float64
	weightedInput float64
	gradient      float64
	delta         float64
	trainable     bool
	weights       []float64
}

// NewUnit creates a trainable unit with the given index within its layer.
func NewUnit(id int) *Unit {
	return &Unit{id: id, trainable: true}
}

// ID returns the unit's stable index within its layer.
func (u *Unit) ID() int { return u.id }

// Name returns the unit's display name.
func (u *Unit) Name() string { return u.name }

// SetName sets the unit's display name.
func (u *Unit) SetName(name string) { u.name = name }

// Activation returns the unit's current activation value.
func (u *Unit) Activation() float64 { return u.activation }

// SetActivation sets the unit's activation value.
func (u *Unit) SetActivation(a float64) { u.activation = a }

// Bias returns the unit's bias.
func (u *Unit) Bias() float64 { return u.bias }

// SetBias sets the unit's bias.
func (u *Unit) SetBias(b float64) { u.bias = b }

// WeightedInput returns the pre-activation sum of the last forward pass.
func (u *Unit) WeightedInput() float64 { return u.weightedInput }

// SetWeightedInput sets the pre-activation sum.
func (u *Unit) SetWeightedInput(w float64) { u.weightedInput = w }

// Gradient returns the unit's stored gradient.
func (u *Unit) Gradient() float64 { return u.gradient }

// SetGradient sets the unit's stored gradient.
func (u *Unit) SetGradient(g float64) { u.gradient = g }

// Delta returns the backpropagated error signal of the last backward pass.
func (u *Unit) Delta() float64 { return u.delta }

// SetDelta sets the backpropagated error signal.
func (u *Unit) SetDelta(d float64) { u.delta = d }

// Trainable reports whether the unit participates in weight updates.
func (u *Unit) Trainable() bool { return u.trainable }

// SetTrainable marks the unit as trainable or frozen.
func (u *Unit) SetTrainable(t bool) { u.trainable = t }

// Weights returns the unit's incoming weight vector as a live view.
// Mutating the returned slice mutates the unit.
func (u *Unit) Weights() []float64 { return u.weights }

// SetWeights replaces the incoming weight vector with a copy of w.
func (u *Unit) SetWeights(w []float64) {
	u.weights = make([]float64, len(w))
	copy(u.weights, w)
}

// Weight returns the incoming weight at index i, or 0 when i is out of
// range. Out-of-range reads are tolerated so a visualizer probing a
// stale index never crashes the engine.
func (u *Unit) Weight(i int) float64 {
	if i < 0 || i >= len(u.weights) {
		return 0
	}
	return u.weights[i]
}

// SetWeight sets the incoming weight at index i. Out-of-range writes are
// a no-op.
func (u *Unit) SetWeight(i int, w float64) {
	if i < 0 || i >= len(u.weights) {
		return
	}
	u.weights[i] = w
}

// ApplyActivation sets the activation to f(weightedInput + bias).
// The callable fully determines the result; no other state is touched.
func (u *Unit) ApplyActivation(f func(float64) float64) {
	u.activation = f(u.weightedInput + u.bias)
}

// ActivationDerivative evaluates f at the unit's pre-activation value
// without mutating any state.
func (u *Unit) ActivationDerivative(f func(float64) float64) float64 {
	return f(u.weightedInput + u.bias)
}

// Reset zeroes the transient scalar state (activation, weighted input,
// gradient, delta) while preserving weights and bias, so the unit keeps
// its structural identity across training runs.
func (u *Unit) Reset() {
	u.activation = 0
	u.weightedInput = 0
	u.gradient = 0
	u.delta = 0
}
