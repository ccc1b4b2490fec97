// Package mlp is the public API of the NetViz neural network engine.
//
// The package re-exports the engine types:
//   - Network: ordered layers, training loop, persistence
//   - Layer, Unit: per-layer and per-unit state for visualization
//   - Config, LayerConfig, TrainingConfig: declarative construction
//   - ActivationType, LossType, InitType, OptimizerType: enum selectors
//
// Example:
//
//	net, err := mlp.New(mlp.Config{
//	    Name: "xor",
//	    Layers: []mlp.LayerConfig{
//	        {Size: 2, Activation: mlp.ActivationNone, Trainable: true},
//	        {Size: 4, Activation: mlp.ActivationReLU, WeightInit: mlp.InitXavier, Trainable: true},
//	        {Size: 1, Activation: mlp.ActivationSigmoid, WeightInit: mlp.InitXavier, Trainable: true},
//	    },
//	    Loss:     mlp.LossMSE,
//	    Training: mlp.TrainingConfig{LearningRate: 0.1},
//	    Seed:     42,
//	})
package mlp

import (
	"github.com/netviz-ml/netviz/internal/activation"
	"github.com/netviz-ml/netviz/internal/initializer"
	"github.com/netviz-ml/netviz/internal/loss"
	"github.com/netviz-ml/netviz/internal/mlp"
)

// Engine types.

// Network is an ordered sequence of layers with a training loop and
// JSON persistence.
type Network = mlp.Network

// Layer is an ordered, fixed-size collection of units.
type Layer = mlp.Layer

// Unit is a single computational node.
type Unit = mlp.Unit

// Config declares a whole network.
type Config = mlp.Config

// LayerConfig declares one layer.
type LayerConfig = mlp.LayerConfig

// TrainingConfig holds training loop parameters.
type TrainingConfig = mlp.TrainingConfig

// TrainOptions parameterizes one call to Network.Train.
type TrainOptions = mlp.TrainOptions

// History records per-epoch training curves.
type History = mlp.History

// ProgressFunc is invoked at the end of every epoch.
type ProgressFunc = mlp.ProgressFunc

// New builds a network from a declarative configuration.
func New(cfg Config) (*Network, error) {
	return mlp.New(cfg)
}

// DefaultLayerConfig returns a trainable ReLU layer of the given size.
func DefaultLayerConfig(size int) LayerConfig {
	return mlp.DefaultLayerConfig(size)
}

// DefaultTrainingConfig returns the engine's training defaults.
func DefaultTrainingConfig() TrainingConfig {
	return mlp.DefaultTrainingConfig()
}

// LoadConfig reads a Config from a JSON file.
func LoadConfig(path string) (Config, error) {
	return mlp.LoadConfig(path)
}

// SaveConfig writes a Config to a JSON file.
func SaveConfig(cfg Config, path string) error {
	return mlp.SaveConfig(cfg, path)
}

// Sentinel errors.
var (
	ErrDimensionMismatch = mlp.ErrDimensionMismatch
	ErrEmptyNetwork      = mlp.ErrEmptyNetwork
	ErrConfiguration     = mlp.ErrConfiguration
	ErrParse             = mlp.ErrParse
)

// ActivationType selects an activation function. The ordinals are part
// of the persisted network format.
type ActivationType = activation.Type

// Activation kinds.
const (
	ActivationNone      ActivationType = activation.None
	ActivationReLU      ActivationType = activation.ReLU
	ActivationSigmoid   ActivationType = activation.Sigmoid
	ActivationTanh      ActivationType = activation.Tanh
	ActivationLeakyReLU ActivationType = activation.LeakyReLU
	ActivationELU       ActivationType = activation.ELU
	ActivationSwish     ActivationType = activation.Swish
	ActivationGELU      ActivationType = activation.GELU
	ActivationSoftmax   ActivationType = activation.Softmax
)

// LossType selects a loss function. The ordinals are part of the
// persisted network format.
type LossType = loss.Type

// Loss kinds.
const (
	LossMSE                LossType = loss.MeanSquaredError
	LossCrossEntropy       LossType = loss.CrossEntropy
	LossBinaryCrossEntropy LossType = loss.BinaryCrossEntropy
	LossHuber              LossType = loss.Huber
	LossFocal              LossType = loss.FocalLoss
)

// InitType selects a weight initialization scheme.
type InitType = initializer.Type

// Initialization kinds.
const (
	InitRandom       InitType = initializer.Random
	InitXavier       InitType = initializer.Xavier
	InitHe           InitType = initializer.He
	InitZero         InitType = initializer.Zero
	InitOne          InitType = initializer.One
	InitLeCun        InitType = initializer.LeCun
	InitRandomNormal InitType = initializer.RandomNormal
)

// OptimizerType selects the optimizer update rule. Only SGD semantics
// are implemented; the other tags round-trip through saved documents.
type OptimizerType = mlp.OptimizerType

// Optimizer kinds.
const (
	OptimizerSGD     OptimizerType = mlp.SGD
	OptimizerAdam    OptimizerType = mlp.Adam
	OptimizerRMSprop OptimizerType = mlp.RMSprop
	OptimizerAdaGrad OptimizerType = mlp.AdaGrad
)
