// Package dataset is the public API for loading and preparing training
// data: CSV files with a numeric target column, one-hot encoding,
// per-column normalization, and train/validation splitting.
//
// Example:
//
//	d, err := dataset.LoadCSV("iris.csv", -1, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dataset.Normalize(d.Inputs)
//	train, val := d.Split(0.2)
package dataset

import (
	"github.com/netviz-ml/netviz/internal/dataset"
)

// Dataset pairs input rows with target rows.
type Dataset = dataset.Dataset

// LoadCSV reads a numeric CSV file into a Dataset. targetColumn -1
// selects the last column; hasHeader skips the first record.
func LoadCSV(path string, targetColumn int, hasHeader bool) (Dataset, error) {
	return dataset.LoadCSV(path, targetColumn, hasHeader)
}

// OneHot encodes integer class labels as one-hot target rows.
func OneHot(labels []int, numClasses int) [][]float64 {
	return dataset.OneHot(labels, numClasses)
}

// Normalize rescales every column of data to [0, 1] in place.
func Normalize(data [][]float64) {
	dataset.Normalize(data)
}

// Standardize rescales every column of data to zero mean and unit
// variance in place.
func Standardize(data [][]float64) {
	dataset.Standardize(data)
}
