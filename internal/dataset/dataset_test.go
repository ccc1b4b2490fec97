package dataset

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, "a,b,label\n1,2,0\n3,4,1\n5,6,0\n")

	d, err := LoadCSV(path, -1, true)
	require.NoError(t, err)

	assert.Equal(t, 3, d.Len())
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}, {5, 6}}, d.Inputs)
	assert.Equal(t, [][]float64{{0}, {1}, {0}}, d.Targets)
}

func TestLoadCSVTargetColumn(t *testing.T) {
	path := writeCSV(t, "0,1,2\n1,3,4\n")

	d, err := LoadCSV(path, 0, false)
	require.NoError(t, err)

	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, d.Inputs)
	assert.Equal(t, [][]float64{{0}, {1}}, d.Targets)
}

func TestLoadCSVErrors(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), -1, false)
	assert.Error(t, err)

	_, err = LoadCSV(writeCSV(t, "a,b\n"), -1, true)
	assert.Error(t, err, "header only, no data rows")

	_, err = LoadCSV(writeCSV(t, "1,2\n3,4\n"), 5, false)
	assert.Error(t, err, "target column outside record")

	_, err = LoadCSV(writeCSV(t, "1,two\n"), -1, false)
	assert.Error(t, err, "non-numeric field")
}

func TestSplit(t *testing.T) {
	d := Dataset{
		Inputs:  [][]float64{{0}, {1}, {2}, {3}, {4}},
		Targets: [][]float64{{0}, {1}, {2}, {3}, {4}},
	}

	train, val := d.Split(0.4)
	assert.Equal(t, 3, train.Len())
	assert.Equal(t, 2, val.Len())
	assert.Equal(t, []float64{3}, val.Inputs[0])

	train, val = d.Split(0)
	assert.Equal(t, 5, train.Len())
	assert.True(t, val.Empty())

	// Out-of-range ratios clamp instead of panicking.
	train, val = d.Split(2)
	assert.True(t, train.Empty())
	assert.Equal(t, 5, val.Len())

	train, _ = d.Split(-1)
	assert.Equal(t, 5, train.Len())
}

func TestShuffleKeepsPairsAligned(t *testing.T) {
	d := Dataset{}
	for i := 0; i < 50; i++ {
		d.Inputs = append(d.Inputs, []float64{float64(i)})
		d.Targets = append(d.Targets, []float64{float64(i) * 10})
	}

	d.Shuffle(rand.New(rand.NewSource(7)))

	seen := make(map[float64]bool)
	for i := range d.Inputs {
		assert.Equal(t, d.Inputs[i][0]*10, d.Targets[i][0])
		seen[d.Inputs[i][0]] = true
	}
	assert.Len(t, seen, 50, "shuffle is a permutation")
}

func TestOneHot(t *testing.T) {
	rows := OneHot([]int{0, 2, 1}, 3)
	assert.Equal(t, [][]float64{{1, 0, 0}, {0, 0, 1}, {0, 1, 0}}, rows)

	// Width derived from the largest label.
	rows = OneHot([]int{1, 3}, 0)
	require.Len(t, rows, 2)
	assert.Equal(t, []float64{0, 1, 0, 0}, rows[0])
	assert.Equal(t, []float64{0, 0, 0, 1}, rows[1])

	// Out-of-range labels encode as all zeros.
	rows = OneHot([]int{5}, 3)
	assert.Equal(t, []float64{0, 0, 0}, rows[0])
}

func TestNormalize(t *testing.T) {
	data := [][]float64{{0, 10}, {5, 10}, {10, 10}}
	Normalize(data)

	assert.Equal(t, []float64{0, 10}, data[0])
	assert.Equal(t, []float64{0.5, 10}, data[1], "constant column untouched")
	assert.Equal(t, []float64{1, 10}, data[2])
}

func TestStandardize(t *testing.T) {
	data := [][]float64{{1, 7}, {2, 7}, {3, 7}}
	Standardize(data)

	assert.InDelta(t, -1, data[0][0], 1e-9)
	assert.InDelta(t, 0, data[1][0], 1e-9)
	assert.InDelta(t, 1, data[2][0], 1e-9)
	for _, row := range data {
		assert.Equal(t, 7.0, row[1], "constant column untouched")
		assert.False(t, math.IsNaN(row[0]))
	}

	// A single row has undefined sample stddev; must not produce NaN.
	single := [][]float64{{3, 4}}
	Standardize(single)
	assert.Equal(t, [][]float64{{3, 4}}, single)
}
