package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// LoadCSV reads a numeric CSV file into a Dataset.
//
// targetColumn selects the column holding the target value; -1 selects
// the last column. Every other column becomes an input feature, in file
// order. hasHeader skips the first record.
func LoadCSV(path string, targetColumn int, hasHeader bool) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return Dataset{}, fmt.Errorf("dataset: read %s: %w", path, err)
	}

	if hasHeader && len(records) > 0 {
		records = records[1:]
	}
	if len(records) == 0 {
		return Dataset{}, fmt.Errorf("dataset: %s has no data rows", path)
	}

	cols := len(records[0])
	if targetColumn == -1 {
		targetColumn = cols - 1
	}
	if targetColumn < 0 || targetColumn >= cols {
		return Dataset{}, fmt.Errorf("dataset: %s: target column %d outside %d columns", path, targetColumn, cols)
	}

	var d Dataset
	for rowIdx, record := range records {
		if len(record) != cols {
			return Dataset{}, fmt.Errorf("dataset: %s row %d: %d fields, want %d", path, rowIdx+1, len(record), cols)
		}

		input := make([]float64, 0, cols-1)
		var target float64

		for c, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return Dataset{}, fmt.Errorf("dataset: %s row %d column %d: %w", path, rowIdx+1, c, err)
			}
			if c == targetColumn {
				target = v
			} else {
				input = append(input, v)
			}
		}

		d.Inputs = append(d.Inputs, input)
		d.Targets = append(d.Targets, []float64{target})
	}

	return d, nil
}
