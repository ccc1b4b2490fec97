package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgMax(t *testing.T) {
	assert.Equal(t, 2, ArgMax([]float64{0.1, 0.3, 0.6}))
	assert.Equal(t, 0, ArgMax([]float64{5}))
	assert.Equal(t, -1, ArgMax(nil))
}

func TestAccuracyBinary(t *testing.T) {
	outputs := [][]float64{{0.9}, {0.2}, {0.7}, {0.4}}
	targets := [][]float64{{1}, {0}, {0}, {1}}

	assert.Equal(t, 0.5, Accuracy(outputs, targets))
	assert.Equal(t, 1.0, Accuracy(outputs, [][]float64{{1}, {0}, {1}, {0}}))
}

func TestAccuracyArgMax(t *testing.T) {
	outputs := [][]float64{
		{0.1, 0.8, 0.1},
		{0.7, 0.2, 0.1},
		{0.3, 0.3, 0.4},
	}
	targets := [][]float64{
		{0, 1, 0},
		{0, 0, 1},
		{0, 0, 1},
	}

	assert.InDelta(t, 2.0/3.0, Accuracy(outputs, targets), 1e-12)
}

func TestAccuracyDegenerateInputs(t *testing.T) {
	assert.Equal(t, 0.0, Accuracy(nil, nil))
	assert.Equal(t, 0.0, Accuracy([][]float64{{1}}, nil), "length mismatch")

	// Mismatched rows are skipped, not scored.
	outputs := [][]float64{{0.9}, {0.1, 0.9}}
	targets := [][]float64{{1}, {1}}
	assert.Equal(t, 0.5, Accuracy(outputs, targets))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{4, 2, 6})

	assert.Equal(t, 4.0, s.Mean)
	assert.Equal(t, 2.0, s.StdDev)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 6.0, s.Max)
	assert.Equal(t, 4.0, s.First)
	assert.Equal(t, 6.0, s.Last)

	assert.Equal(t, Summary{}, Summarize(nil))
}
