package mlp

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/netviz-ml/netviz/internal/initializer"
	"github.com/netviz-ml/netviz/internal/loss"
)

// Network is an ordered sequence of layers with a training loop.
//
// The first layer is the input layer and the last is the output layer.
// One mutex guards every operation that touches unit state or the layer
// list, including forward passes, per-batch training, structural edits,
// and serialization, so a visualizer may snapshot the network while a
// background goroutine trains it. Training state (isTraining, shouldStop,
// progress) is atomic and readable without the lock.
//
// The network owns its RNG: weight initialization, shuffling, and dropout
// all draw from it, so a fixed Config.Seed reproduces a run exactly.
type Network struct {
	mu sync.Mutex

	name          string
	layers        []*Layer
	learningRate  float64
	lossType      loss.Type
	optimizerType OptimizerType
	weightInit    initializer.Type
	rng           *rand.Rand

	training atomic.Bool
	stop     atomic.Bool
	progress atomicFloat64
}

// New builds a network from a declarative configuration. Each layer's
// weights are initialized against its predecessor using the layer's
// scheme as soon as it is added.
func New(cfg Config) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	lr := cfg.Training.LearningRate
	if lr == 0 {
		lr = DefaultTrainingConfig().LearningRate
	}

	n := &Network{
		name:          cfg.Name,
		learningRate:  lr,
		lossType:      cfg.Loss,
		optimizerType: cfg.Optimizer,
		weightInit:    initializer.Xavier,
		rng:           rand.New(rand.NewSource(seed)),
	}

	for _, lc := range cfg.Layers {
		if err := n.AddLayer(lc); err != nil {
			return nil, err
		}
	}

	return n, nil
}

// Name returns the network's display name.
func (n *Network) Name() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.name
}

// SetName sets the network's display name.
func (n *Network) SetName(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.name = name
}

// LearningRate returns the current learning rate.
func (n *Network) LearningRate() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.learningRate
}

// SetLearningRate sets the learning rate used by weight updates.
func (n *Network) SetLearningRate(lr float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.learningRate = lr
}

// LossType returns the selected loss function.
func (n *Network) LossType() loss.Type {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lossType
}

// SetLossType selects the loss function used by training and evaluation.
func (n *Network) SetLossType(t loss.Type) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lossType = t
}

// OptimizerType returns the stored optimizer tag.
func (n *Network) OptimizerType() OptimizerType {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.optimizerType
}

// SetOptimizerType stores the optimizer tag. Only the SGD update rule is
// implemented; other tags are preserved for serialization compatibility
// but do not change the update rule.
func (n *Network) SetOptimizerType(t OptimizerType) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.optimizerType = t
}

// LayerCount returns the number of layers.
func (n *Network) LayerCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.layers)
}

// Layer returns the layer at index i, or nil when i is out of range.
func (n *Network) Layer(i int) *Layer {
	n.mu.Lock()
	defer n.mu.Unlock()
	if i < 0 || i >= len(n.layers) {
		return nil
	}
	return n.layers[i]
}

// AddLayer appends a layer built from cfg. When a predecessor exists,
// the new layer's weights are initialized against the predecessor's size
// using the config's scheme.
func (n *Network) AddLayer(cfg LayerConfig) error {
	if cfg.Size <= 0 {
		return fmt.Errorf("mlp: add layer: size %d: %w", cfg.Size, ErrConfiguration)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	layer := NewLayer(cfg)
	if len(n.layers) > 0 {
		layer.InitializeWeights(n.layers[len(n.layers)-1].Size(), cfg.WeightInit, n.rng)
	}
	n.layers = append(n.layers, layer)
	return nil
}

// RemoveLayer removes the layer at index i. Every following layer is
// re-initialized against its new predecessor with the network's default
// scheme, since its old weight vectors no longer fit.
func (n *Network) RemoveLayer(i int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if i < 0 || i >= len(n.layers) {
		return fmt.Errorf("mlp: remove layer %d of %d: %w", i, len(n.layers), ErrConfiguration)
	}

	n.layers = append(n.layers[:i], n.layers[i+1:]...)

	for j := i; j < len(n.layers); j++ {
		if j > 0 {
			n.layers[j].InitializeWeights(n.layers[j-1].Size(), n.weightInit, n.rng)
		}
	}
	return nil
}

// ClearLayers removes every layer.
func (n *Network) ClearLayers() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.layers = nil
}

// InitializeWeights re-derives the weights of every non-input layer with
// the given scheme.
func (n *Network) InitializeWeights(scheme initializer.Type) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i := 1; i < len(n.layers); i++ {
		n.layers[i].InitializeWeights(n.layers[i-1].Size(), scheme, n.rng)
	}
}

// Reset zeroes every unit's transient state and the training flags.
// Weights and biases survive.
func (n *Network) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, l := range n.layers {
		l.Reset()
	}

	n.training.Store(false)
	n.stop.Store(false)
	n.progress.Store(0)
}

// Forward feeds inputs through the network and returns the output
// layer's activations. Dropout applies only while a training run is
// active; use Predict for inference that is guaranteed dropout-free.
func (n *Network) Forward(inputs []float64) ([]float64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.forwardLocked(inputs, n.training.Load())
}

// forwardLocked runs the layer-to-layer forward pass. The caller holds
// the network lock. The training flag is threaded through explicitly so
// inference never has to toggle shared state.
func (n *Network) forwardLocked(inputs []float64, training bool) ([]float64, error) {
	if len(n.layers) == 0 {
		return nil, fmt.Errorf("mlp: forward: %w", ErrEmptyNetwork)
	}
	if len(inputs) != n.layers[0].Size() {
		return nil, fmt.Errorf("mlp: forward: %d inputs for input layer of %d: %w",
			len(inputs), n.layers[0].Size(), ErrDimensionMismatch)
	}

	if err := n.layers[0].SetActivations(inputs); err != nil {
		return nil, err
	}

	for i := 1; i < len(n.layers); i++ {
		prev := n.layers[i-1].Activations()
		if err := n.layers[i].Forward(prev); err != nil {
			return nil, err
		}
		n.layers[i].ApplyActivation()
		n.layers[i].ApplyDropout(training, n.rng)
	}

	return n.layers[len(n.layers)-1].Activations(), nil
}

// Backward runs one backpropagation pass for a sample whose forward
// outputs are already in place, and applies the SGD weight update.
// Returns the scalar loss.
func (n *Network) Backward(targets, outputs []float64) (float64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.backwardLocked(targets, outputs)
}

func (n *Network) backwardLocked(targets, outputs []float64) (float64, error) {
	if len(n.layers) < 2 {
		return 0, fmt.Errorf("mlp: backward: need at least 2 layers, have %d: %w",
			len(n.layers), ErrConfiguration)
	}

	lossValue := n.lossType.Loss(outputs, targets)

	grads := n.lossType.Gradient(outputs, targets)
	if grads == nil {
		return 0, fmt.Errorf("mlp: backward: %d targets for %d outputs: %w",
			len(targets), len(outputs), ErrDimensionMismatch)
	}

	// Snapshot every layer's activations before any weights move, so
	// each update sees the activations its predecessor held going into
	// this pass.
	preUpdate := make([][]float64, len(n.layers))
	for i, l := range n.layers {
		preUpdate[i] = l.Activations()
	}

	// Seed the output layer's deltas from the loss gradient.
	outputLayer := n.layers[len(n.layers)-1]
	for i := 0; i < outputLayer.Size(); i++ {
		outputLayer.Unit(i).SetDelta(grads[i])
	}

	// Walk hidden layers in reverse, propagating deltas.
	for i := len(n.layers) - 2; i >= 1; i-- {
		next := n.layers[i+1]

		nextDeltas := next.Deltas()
		nextWeights := next.WeightMatrix()

		if err := n.layers[i].ComputeGradients(nextDeltas, nextWeights); err != nil {
			return 0, err
		}
	}

	// Apply updates front to back against the snapshotted activations.
	for i := 1; i < len(n.layers); i++ {
		if err := n.layers[i].UpdateWeights(n.learningRate, preUpdate[i-1]); err != nil {
			return 0, err
		}
	}

	return lossValue, nil
}

// Predict runs a forward pass in inference mode: dropout is disabled for
// the duration of the call and no weight or mode state is mutated.
func (n *Network) Predict(inputs []float64) ([]float64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.forwardLocked(inputs, false)
}

// PredictBatch runs Predict over every row of inputs.
func (n *Network) PredictBatch(inputs [][]float64) ([][]float64, error) {
	outputs := make([][]float64, 0, len(inputs))
	for _, in := range inputs {
		out, err := n.Predict(in)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// IsTraining reports whether a training run is active.
func (n *Network) IsTraining() bool { return n.training.Load() }

// StopTraining requests a cooperative stop. The active training run
// observes the flag at the next epoch boundary; there is no mid-epoch
// interrupt.
func (n *Network) StopTraining() { n.stop.Store(true) }

// TrainingProgress returns the fraction of requested epochs completed,
// in [0, 1].
func (n *Network) TrainingProgress() float64 { return n.progress.Load() }

// atomicFloat64 stores a float64 behind an atomic bit pattern.
type atomicFloat64 struct {
	bits atomic.Uint64
}

func (f *atomicFloat64) Load() float64   { return math.Float64frombits(f.bits.Load()) }
func (f *atomicFloat64) Store(v float64) { f.bits.Store(math.Float64bits(v)) }
