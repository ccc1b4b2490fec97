package mlp

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/netviz-ml/netviz/internal/activation"
	"github.com/netviz-ml/netviz/internal/initializer"
	"github.com/netviz-ml/netviz/internal/loss"
)

// OptimizerType selects the optimizer update rule.
//
// The ordinals are serialized in saved networks. Only the SGD rule is
// implemented; the other tags are stored and round-tripped so saved
// documents keep their meaning, but selecting them does not change the
// update rule.
type OptimizerType int

// Optimizer kinds.
const (
	SGD OptimizerType = iota
	Adam
	RMSprop
	AdaGrad
)

// String returns the human-readable name of the optimizer kind.
func (t OptimizerType) String() string {
	switch t {
	case SGD:
		return "sgd"
	case Adam:
		return "adam"
	case RMSprop:
		return "rmsprop"
	case AdaGrad:
		return "adagrad"
	default:
		return "unknown"
	}
}

// Valid reports whether t names a known optimizer kind.
func (t OptimizerType) Valid() bool {
	return t >= SGD && t <= AdaGrad
}

// LayerConfig declares one layer of a network.
type LayerConfig struct {
	// Size is the number of units. Must be positive.
	Size int `json:"size"`
	// Activation applied to the layer's units. Defaults to ReLU for the
	// zero value of a freshly declared config via DefaultLayerConfig.
	Activation activation.Type `json:"activation"`
	// DropoutRate in [0, 1]; 0 disables dropout.
	DropoutRate float64 `json:"dropout_rate"`
	// WeightInit selects the initialization scheme for incoming weights.
	WeightInit initializer.Type `json:"weight_init"`
	// Name is an optional display name.
	Name string `json:"name"`
	// Trainable marks whether updateWeights touches the layer.
	Trainable bool `json:"trainable"`
}

// DefaultLayerConfig returns a trainable ReLU layer of the given size
// with Xavier initialization and no dropout.
func DefaultLayerConfig(size int) LayerConfig {
	return LayerConfig{
		Size:       size,
		Activation: activation.ReLU,
		WeightInit: initializer.Xavier,
		Trainable:  true,
	}
}

// TrainingConfig holds the training loop parameters.
type TrainingConfig struct {
	LearningRate          float64 `json:"learning_rate"`
	BatchSize             int     `json:"batch_size"`
	Epochs                int     `json:"epochs"`
	ValidationSplit       float64 `json:"validation_split"`
	Shuffle               bool    `json:"shuffle"`
	EarlyStoppingPatience int     `json:"early_stopping_patience"`
	EarlyStoppingMinDelta float64 `json:"early_stopping_min_delta"`
}

// DefaultTrainingConfig returns the engine defaults.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		LearningRate:          0.001,
		BatchSize:             32,
		Epochs:                100,
		ValidationSplit:       0.2,
		Shuffle:               true,
		EarlyStoppingPatience: 10,
		EarlyStoppingMinDelta: 1e-4,
	}
}

// Config declares a whole network.
type Config struct {
	Name      string          `json:"name"`
	Layers    []LayerConfig   `json:"layers"`
	Optimizer OptimizerType   `json:"optimizer"`
	Loss      loss.Type       `json:"loss"`
	Training  TrainingConfig  `json:"training"`
	// Seed seeds the network-owned RNG used for weight initialization,
	// shuffling, and dropout. Zero draws a seed from the clock.
	Seed int64 `json:"seed,omitempty"`
}

// Validate checks the configuration for structural errors.
func (c Config) Validate() error {
	for i, lc := range c.Layers {
		if lc.Size <= 0 {
			return fmt.Errorf("mlp: config: layer %d has size %d: %w", i, lc.Size, ErrConfiguration)
		}
		if lc.DropoutRate < 0 || lc.DropoutRate > 1 {
			return fmt.Errorf("mlp: config: layer %d dropout rate %g outside [0,1]: %w", i, lc.DropoutRate, ErrConfiguration)
		}
		if !lc.Activation.Valid() {
			return fmt.Errorf("mlp: config: layer %d has unknown activation %d: %w", i, lc.Activation, ErrConfiguration)
		}
	}
	if !c.Loss.Valid() {
		return fmt.Errorf("mlp: config: unknown loss %d: %w", c.Loss, ErrConfiguration)
	}
	if !c.Optimizer.Valid() {
		return fmt.Errorf("mlp: config: unknown optimizer %d: %w", c.Optimizer, ErrConfiguration)
	}
	return nil
}

// LoadConfig reads a Config from a JSON file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("mlp: load config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("mlp: load config %s: %w: %v", path, ErrParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SaveConfig writes a Config to a JSON file.
func SaveConfig(cfg Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("mlp: save config %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("mlp: save config %s: %w", path, err)
	}
	return nil
}
