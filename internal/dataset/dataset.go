// Package dataset loads and prepares training data for the engine.
//
// It covers the tabular path: CSV files with a numeric target column,
// one-hot encoding of class labels, per-column normalization, and
// train/validation splitting. Image formats belong to the visualizer
// side and are out of scope here.
package dataset

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// Dataset pairs input rows with target rows. Inputs[i] corresponds to
// Targets[i].
type Dataset struct {
	Inputs  [][]float64
	Targets [][]float64
}

// Len returns the number of samples.
func (d Dataset) Len() int { return len(d.Inputs) }

// Empty reports whether the dataset has no samples.
func (d Dataset) Empty() bool { return len(d.Inputs) == 0 }

// Split cuts the dataset into a training part and a validation part.
// validationRatio is the fraction of samples, from the end, that go
// into the validation part; it is clamped to [0, 1]. Rows are shared,
// not copied.
func (d Dataset) Split(validationRatio float64) (train, validation Dataset) {
	if validationRatio < 0 {
		validationRatio = 0
	} else if validationRatio > 1 {
		validationRatio = 1
	}

	cut := d.Len() - int(float64(d.Len())*validationRatio)

	train = Dataset{Inputs: d.Inputs[:cut], Targets: d.Targets[:cut]}
	validation = Dataset{Inputs: d.Inputs[cut:], Targets: d.Targets[cut:]}
	return train, validation
}

// Shuffle applies one uniform random permutation to the sample order.
func (d *Dataset) Shuffle(rng *rand.Rand) {
	rng.Shuffle(d.Len(), func(i, j int) {
		d.Inputs[i], d.Inputs[j] = d.Inputs[j], d.Inputs[i]
		d.Targets[i], d.Targets[j] = d.Targets[j], d.Targets[i]
	})
}

// OneHot encodes integer class labels as one-hot target rows.
// numClasses 0 derives the width from the largest label.
func OneHot(labels []int, numClasses int) [][]float64 {
	if numClasses <= 0 {
		for _, l := range labels {
			if l+1 > numClasses {
				numClasses = l + 1
			}
		}
	}

	rows := make([][]float64, len(labels))
	for i, l := range labels {
		row := make([]float64, numClasses)
		if l >= 0 && l < numClasses {
			row[l] = 1
		}
		rows[i] = row
	}
	return rows
}

// Normalize rescales every column of data to [0, 1] in place. Constant
// columns are left untouched.
func Normalize(data [][]float64) {
	if len(data) == 0 {
		return
	}

	cols := len(data[0])
	for c := 0; c < cols; c++ {
		minVal, maxVal := data[0][c], data[0][c]
		for _, row := range data {
			if row[c] < minVal {
				minVal = row[c]
			}
			if row[c] > maxVal {
				maxVal = row[c]
			}
		}

		span := maxVal - minVal
		if span == 0 {
			continue
		}
		for _, row := range data {
			row[c] = (row[c] - minVal) / span
		}
	}
}

// Standardize rescales every column of data to zero mean and unit
// variance in place. Constant columns are left untouched.
func Standardize(data [][]float64) {
	if len(data) == 0 {
		return
	}

	col := make([]float64, len(data))
	cols := len(data[0])

	for c := 0; c < cols; c++ {
		for i, row := range data {
			col[i] = row[c]
		}

		mean := stat.Mean(col, nil)
		std := stat.StdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			continue
		}

		for _, row := range data {
			row[c] = (row[c] - mean) / std
		}
	}
}
