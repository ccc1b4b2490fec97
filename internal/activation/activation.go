// Package activation implements the activation functions used by the engine.
//
// Each function is paired with its derivative, both evaluated at the
// pre-activation value. Functions are selected by Type; the numeric values
// of the Type constants are part of the persisted network format and must
// never change.
package activation

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Type selects an activation function.
//
// The ordinals are serialized in saved networks. Append new kinds at the
// end; never reorder.
type Type int

// Activation kinds.
const (
	None Type = iota
	ReLU
	Sigmoid
	Tanh
	LeakyReLU
	ELU
	Swish
	GELU
	Softmax
)

const (
	// leakyAlpha is the leak coefficient for LeakyReLU.
	leakyAlpha = 0.01
	// eluAlpha is the saturation coefficient for ELU.
	eluAlpha = 1.0
	// sigmoidClamp bounds the sigmoid argument before exponentiation.
	sigmoidClamp = 500.0

	sqrt2OverPi = 0.7978845608028654
	geluCoeff   = 0.044715
)

// String returns the human-readable name of the activation kind.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case ReLU:
		return "relu"
	case Sigmoid:
		return "sigmoid"
	case Tanh:
		return "tanh"
	case LeakyReLU:
		return "leaky_relu"
	case ELU:
		return "elu"
	case Swish:
		return "swish"
	case GELU:
		return "gelu"
	case Softmax:
		return "softmax"
	default:
		return "unknown"
	}
}

// Valid reports whether t names a known activation kind.
func (t Type) Valid() bool {
	return t >= None && t <= Softmax
}

// Apply evaluates the activation function at x.
//
// Softmax operates on whole vectors and cannot be evaluated per scalar;
// for Softmax, Apply is the identity and callers are expected to use the
// vector-valued Softmax function on the full layer instead.
func (t Type) Apply(x float64) float64 {
	switch t {
	case ReLU:
		return math.Max(0, x)
	case Sigmoid:
		return sigmoid(x)
	case Tanh:
		return math.Tanh(x)
	case LeakyReLU:
		if x > 0 {
			return x
		}
		return leakyAlpha * x
	case ELU:
		if x > 0 {
			return x
		}
		return eluAlpha * (math.Exp(x) - 1)
	case Swish:
		return x * sigmoid(x)
	case GELU:
		return gelu(x)
	default:
		// None and Softmax pass through.
		return x
	}
}

// Derivative evaluates the derivative of the activation function at x.
//
// For Softmax the scalar derivative degenerates to 1, matching the
// identity pass-through in Apply; the softmax Jacobian is folded into the
// loss gradient by the caller.
func (t Type) Derivative(x float64) float64 {
	switch t {
	case ReLU:
		if x > 0 {
			return 1
		}
		return 0
	case Sigmoid:
		s := sigmoid(x)
		return s * (1 - s)
	case Tanh:
		th := math.Tanh(x)
		return 1 - th*th
	case LeakyReLU:
		if x > 0 {
			return 1
		}
		return leakyAlpha
	case ELU:
		if x > 0 {
			return 1
		}
		return eluAlpha * math.Exp(x)
	case Swish:
		s := sigmoid(x)
		sw := x * s
		return sw + s*(1-sw)
	case GELU:
		return geluDerivative(x)
	default:
		return 1
	}
}

// SoftmaxVec computes the softmax of x into a new slice.
//
// The maximum element is subtracted before exponentiation for numerical
// stability, so arbitrarily large logits do not overflow.
func SoftmaxVec(x []float64) []float64 {
	if len(x) == 0 {
		return nil
	}

	out := make([]float64, len(x))
	maxVal := floats.Max(x)

	for i, v := range x {
		out[i] = math.Exp(v - maxVal)
	}

	sum := floats.Sum(out)
	for i := range out {
		out[i] /= sum
	}

	return out
}

func sigmoid(x float64) float64 {
	x = math.Max(-sigmoidClamp, math.Min(sigmoidClamp, x))
	return 1 / (1 + math.Exp(-x))
}

// gelu is the tanh approximation of the Gaussian Error Linear Unit.
func gelu(x float64) float64 {
	x3 := x * x * x
	return 0.5 * x * (1 + math.Tanh(sqrt2OverPi*(x+geluCoeff*x3)))
}

func geluDerivative(x float64) float64 {
	x2 := x * x
	inner := sqrt2OverPi * (x + geluCoeff*x2*x)
	th := math.Tanh(inner)
	sech2 := 1 - th*th

	return 0.5*(1+th) + 0.5*x*sech2*sqrt2OverPi*(1+3*geluCoeff*x2)
}
