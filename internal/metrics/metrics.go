// Package metrics implements evaluation metrics for network outputs.
package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ArgMax returns the index of the largest element of x, or -1 for an
// empty slice.
func ArgMax(x []float64) int {
	if len(x) == 0 {
		return -1
	}
	return floats.MaxIdx(x)
}

// Accuracy computes the fraction of correct predictions.
//
// Single-output rows are scored as binary classification: the output is
// thresholded at 0.5 and counts as correct when it lands within 0.5 of
// the target. Multi-output rows count as correct when the argmax of the
// output matches the argmax of the (one-hot) target.
func Accuracy(outputs, targets [][]float64) float64 {
	if len(outputs) == 0 || len(outputs) != len(targets) {
		return 0
	}

	correct := 0
	for i, out := range outputs {
		if len(out) == 0 || len(out) != len(targets[i]) {
			continue
		}

		if len(out) == 1 {
			predicted := 0.0
			if out[0] > 0.5 {
				predicted = 1.0
			}
			diff := predicted - targets[i][0]
			if diff < 0 {
				diff = -diff
			}
			if diff < 0.5 {
				correct++
			}
		} else if ArgMax(out) == ArgMax(targets[i]) {
			correct++
		}
	}

	return float64(correct) / float64(len(outputs))
}

// Summary holds descriptive statistics of a metric series, typically a
// per-epoch loss history.
type Summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	First  float64
	Last   float64
}

// Summarize computes descriptive statistics over series.
// Returns the zero Summary for an empty series.
func Summarize(series []float64) Summary {
	if len(series) == 0 {
		return Summary{}
	}

	return Summary{
		Mean:   stat.Mean(series, nil),
		StdDev: stat.StdDev(series, nil),
		Min:    floats.Min(series),
		Max:    floats.Max(series),
		First:  series[0],
		Last:   series[len(series)-1],
	}
}
