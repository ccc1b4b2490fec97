// Package initializer implements weight initialization schemes.
//
// A scheme is a function of the layer's fan-in and fan-out that draws a
// single weight; layers call it once per connection. Randomized schemes
// draw from the *rand.Rand passed to New, so a fixed seed reproduces the
// same network exactly.
package initializer

import (
	"math"
	"math/rand"
)

// Type selects a weight initialization scheme.
type Type int

// Initialization kinds.
const (
	Random Type = iota
	Xavier
	He
	Zero
	One
	LeCun
	RandomNormal
)

// Func draws one weight for a connection in a layer with the given
// fan-in and fan-out.
type Func func(fanIn, fanOut int) float64

// String returns the human-readable name of the initialization kind.
func (t Type) String() string {
	switch t {
	case Random:
		return "random"
	case Xavier:
		return "xavier"
	case He:
		return "he"
	case Zero:
		return "zero"
	case One:
		return "one"
	case LeCun:
		return "lecun"
	case RandomNormal:
		return "random_normal"
	default:
		return "unknown"
	}
}

// New returns the drawing function for the scheme.
//
// Unknown kinds fall back to Xavier, the engine default.
func New(t Type, rng *rand.Rand) Func {
	switch t {
	case Random:
		// Uniform in [-1, 1).
		return func(_, _ int) float64 {
			return rng.Float64()*2 - 1
		}
	case He:
		// Normal with sigma = sqrt(2/fanIn), suited to ReLU layers.
		return func(fanIn, _ int) float64 {
			return rng.NormFloat64() * math.Sqrt(2/float64(fanIn))
		}
	case Zero:
		return func(_, _ int) float64 { return 0 }
	case One:
		return func(_, _ int) float64 { return 1 }
	case LeCun:
		return func(fanIn, _ int) float64 {
			return rng.NormFloat64() * math.Sqrt(1/float64(fanIn))
		}
	case RandomNormal:
		return func(_, _ int) float64 {
			return rng.NormFloat64()
		}
	default:
		// Xavier/Glorot uniform: [-limit, limit), limit = sqrt(6/(fanIn+fanOut)).
		return func(fanIn, fanOut int) float64 {
			limit := math.Sqrt(6 / float64(fanIn+fanOut))
			return (rng.Float64()*2 - 1) * limit
		}
	}
}

// Bias returns the initial bias for the scheme. Variance-scaled schemes
// zero the bias, constant schemes use their constant, and the plain
// random scheme draws the bias from the same distribution as weights.
func (t Type) Bias(rng *rand.Rand) float64 {
	switch t {
	case Random:
		return rng.Float64()*2 - 1
	case One:
		return 1
	default:
		return 0
	}
}
