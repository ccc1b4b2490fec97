// Package loss implements the loss functions and their gradients.
//
// Every loss is a pure function of (outputs, targets); the paired
// Gradient returns the derivative of the loss with respect to each
// output. Probability-based losses clamp their inputs away from 0 and 1
// before taking logarithms. Type ordinals are part of the persisted
// network format.
package loss

import "math"

// Type selects a loss function.
//
// The ordinals are serialized in saved networks. Append new kinds at the
// end; never reorder.
type Type int

// Loss kinds.
const (
	MeanSquaredError Type = iota
	CrossEntropy
	BinaryCrossEntropy
	Huber
	FocalLoss
)

const (
	// epsilon keeps probabilities strictly inside (0, 1) before log.
	epsilon = 1e-15
	// huberDelta is the quadratic/linear crossover of the Huber loss.
	huberDelta = 1.0
	// focalAlpha weights the rare class in the focal loss.
	focalAlpha = 1.0
	// focalGamma is the focusing parameter of the focal loss.
	focalGamma = 2.0
)

// String returns the human-readable name of the loss kind.
func (t Type) String() string {
	switch t {
	case MeanSquaredError:
		return "mse"
	case CrossEntropy:
		return "cross_entropy"
	case BinaryCrossEntropy:
		return "binary_cross_entropy"
	case Huber:
		return "huber"
	case FocalLoss:
		return "focal"
	default:
		return "unknown"
	}
}

// Valid reports whether t names a known loss kind.
func (t Type) Valid() bool {
	return t >= MeanSquaredError && t <= FocalLoss
}

// Loss computes the scalar loss for one sample.
//
// Mismatched output/target lengths yield 0; the dimension check belongs
// to the caller, and a render-driven caller must never be crashed by a
// stray sample.
func (t Type) Loss(outputs, targets []float64) float64 {
	if len(outputs) != len(targets) || len(outputs) == 0 {
		return 0
	}

	n := float64(len(outputs))

	switch t {
	case CrossEntropy:
		sum := 0.0
		for i, out := range outputs {
			sum -= targets[i] * math.Log(clamp01(out))
		}
		return sum

	case BinaryCrossEntropy:
		sum := 0.0
		for i, out := range outputs {
			p := clamp01(out)
			sum -= targets[i]*math.Log(p) + (1-targets[i])*math.Log(1-p)
		}
		return sum / n

	case Huber:
		sum := 0.0
		for i, out := range outputs {
			diff := math.Abs(out - targets[i])
			if diff <= huberDelta {
				sum += 0.5 * diff * diff
			} else {
				sum += huberDelta*diff - 0.5*huberDelta*huberDelta
			}
		}
		return sum / n

	case FocalLoss:
		sum := 0.0
		for i, out := range outputs {
			p := clamp01(out)
			pt := targets[i]*p + (1-targets[i])*(1-p)
			sum -= focalAlpha * math.Pow(1-pt, focalGamma) * math.Log(pt)
		}
		return sum / n

	default: // MeanSquaredError
		sum := 0.0
		for i, out := range outputs {
			diff := out - targets[i]
			sum += diff * diff
		}
		return sum / n
	}
}

// Gradient computes dLoss/dOutput for every output of one sample.
//
// Returns nil when the lengths do not match.
func (t Type) Gradient(outputs, targets []float64) []float64 {
	if len(outputs) != len(targets) || len(outputs) == 0 {
		return nil
	}

	grads := make([]float64, len(outputs))
	n := float64(len(outputs))

	switch t {
	case CrossEntropy:
		for i, out := range outputs {
			grads[i] = -targets[i] / clamp01(out)
		}

	case BinaryCrossEntropy:
		for i, out := range outputs {
			p := clamp01(out)
			grads[i] = (p - targets[i]) / (p * (1 - p)) / n
		}

	case Huber:
		for i, out := range outputs {
			diff := out - targets[i]
			if math.Abs(diff) <= huberDelta {
				grads[i] = diff
			} else if diff > 0 {
				grads[i] = huberDelta
			} else {
				grads[i] = -huberDelta
			}
			grads[i] /= n
		}

	case FocalLoss:
		for i, out := range outputs {
			p := clamp01(out)
			pt := targets[i]*p + (1-targets[i])*(1-p)

			factor := focalAlpha * math.Pow(1-pt, focalGamma)
			focus := focalGamma * math.Pow(1-pt, focalGamma-1) * math.Log(pt)

			if targets[i] == 1 {
				grads[i] = -factor/p + focus
			} else {
				grads[i] = factor/(1-p) - focus
			}
			grads[i] /= n
		}

	default: // MeanSquaredError
		for i, out := range outputs {
			grads[i] = 2 * (out - targets[i]) / n
		}
	}

	return grads
}

func clamp01(p float64) float64 {
	return math.Max(epsilon, math.Min(1-epsilon, p))
}
