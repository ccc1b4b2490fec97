package mlp

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/netviz-ml/netviz/internal/activation"
	"github.com/netviz-ml/netviz/internal/initializer"
	"github.com/netviz-ml/netviz/internal/loss"
)

// Persisted document layout. Field names and the enum ordinals they
// carry are a compatibility surface shared with other consumers of saved
// networks; both must be preserved exactly.

type networkDocument struct {
	Name          string          `json:"name"`
	LearningRate  float64         `json:"learning_rate"`
	LossType      int             `json:"loss_type"`
	OptimizerType int             `json:"optimizer_type"`
	Layers        []layerDocument `json:"layers"`
}

type layerDocument struct {
	Name           string         `json:"name"`
	Size           int            `json:"size"`
	ActivationType int            `json:"activation_type"`
	DropoutRate    float64        `json:"dropout_rate"`
	Trainable      bool           `json:"trainable"`
	Neurons        []unitDocument `json:"neurons"`
}

type unitDocument struct {
	ID            int       `json:"id"`
	Activation    float64   `json:"activation"`
	Bias          float64   `json:"bias"`
	WeightedInput float64   `json:"weighted_input"`
	Gradient      float64   `json:"gradient"`
	Delta         float64   `json:"delta"`
	Trainable     bool      `json:"trainable"`
	Name          string    `json:"name"`
	InputWeights  []float64 `json:"input_weights"`
}

// ToJSON serializes the network, including all unit state and weights,
// into the persisted document format.
func (n *Network) ToJSON() ([]byte, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	doc := networkDocument{
		Name:          n.name,
		LearningRate:  n.learningRate,
		LossType:      int(n.lossType),
		OptimizerType: int(n.optimizerType),
		Layers:        make([]layerDocument, 0, len(n.layers)),
	}

	for _, l := range n.layers {
		ld := layerDocument{
			Name:           l.Name(),
			Size:           l.Size(),
			ActivationType: int(l.Activation()),
			DropoutRate:    l.DropoutRate(),
			Trainable:      l.Trainable(),
			Neurons:        make([]unitDocument, 0, l.Size()),
		}

		for i := 0; i < l.Size(); i++ {
			u := l.Unit(i)

			weights := make([]float64, len(u.Weights()))
			copy(weights, u.Weights())

			ld.Neurons = append(ld.Neurons, unitDocument{
				ID:            u.ID(),
				Activation:    u.Activation(),
				Bias:          u.Bias(),
				WeightedInput: u.WeightedInput(),
				Gradient:      u.Gradient(),
				Delta:         u.Delta(),
				Trainable:     u.Trainable(),
				Name:          u.Name(),
				InputWeights:  weights,
			})
		}

		doc.Layers = append(doc.Layers, ld)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("mlp: to json: %w", err)
	}
	return data, nil
}

// FromJSON rehydrates the network from a persisted document, replacing
// the layer list, the loss/optimizer selection, and the learning rate.
// No randomness is involved: the loaded network predicts exactly as the
// saved one did.
func (n *Network) FromJSON(data []byte) error {
	var doc networkDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("mlp: from json: %w: %v", ErrParse, err)
	}

	if !loss.Type(doc.LossType).Valid() {
		return fmt.Errorf("mlp: from json: loss_type %d: %w", doc.LossType, ErrParse)
	}
	if !OptimizerType(doc.OptimizerType).Valid() {
		return fmt.Errorf("mlp: from json: optimizer_type %d: %w", doc.OptimizerType, ErrParse)
	}

	layers := make([]*Layer, 0, len(doc.Layers))
	for li, ld := range doc.Layers {
		if !activation.Type(ld.ActivationType).Valid() {
			return fmt.Errorf("mlp: from json: layer %d activation_type %d: %w",
				li, ld.ActivationType, ErrParse)
		}
		if ld.Size != len(ld.Neurons) {
			return fmt.Errorf("mlp: from json: layer %d size %d with %d neurons: %w",
				li, ld.Size, len(ld.Neurons), ErrParse)
		}

		layer := NewLayer(LayerConfig{
			Size:        len(ld.Neurons),
			Activation:  activation.Type(ld.ActivationType),
			DropoutRate: ld.DropoutRate,
			Name:        ld.Name,
			Trainable:   ld.Trainable,
		})

		for i, nd := range ld.Neurons {
			u := layer.Unit(i)
			u.id = nd.ID
			u.SetName(nd.Name)
			u.SetActivation(nd.Activation)
			u.SetBias(nd.Bias)
			u.SetWeightedInput(nd.WeightedInput)
			u.SetGradient(nd.Gradient)
			u.SetDelta(nd.Delta)
			u.SetTrainable(nd.Trainable)
			u.SetWeights(nd.InputWeights)
		}

		layers = append(layers, layer)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.name = doc.Name
	n.learningRate = doc.LearningRate
	n.lossType = loss.Type(doc.LossType)
	n.optimizerType = OptimizerType(doc.OptimizerType)
	n.layers = layers

	// A network rehydrated into a zero value still needs an RNG and a
	// default init scheme for later training and structural edits.
	if n.rng == nil {
		n.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		n.weightInit = initializer.Xavier
	}

	return nil
}

// SaveFile writes the serialized network to path.
func (n *Network) SaveFile(path string) error {
	data, err := n.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("mlp: save %s: %w", path, err)
	}
	return nil
}

// LoadFile reads a serialized network from path.
func (n *Network) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("mlp: load %s: %w", path, err)
	}
	return n.FromJSON(data)
}
