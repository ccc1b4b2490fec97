package mlp

import (
	"fmt"
	"math"

	"github.com/netviz-ml/netviz/internal/metrics"
)

// ProgressFunc is invoked synchronously at the end of every epoch with
// the zero-based epoch index, the epoch's average training loss, and the
// training accuracy.
type ProgressFunc func(epoch int, loss, accuracy float64)

// History records per-epoch training curves. Validation series are only
// populated when validation data was supplied.
type History struct {
	TrainLoss     []float64
	TrainAccuracy []float64
	ValLoss       []float64
	ValAccuracy   []float64
}

// Epochs returns the number of completed epochs.
func (h *History) Epochs() int { return len(h.TrainLoss) }

// TrainOptions parameterizes one call to Train.
type TrainOptions struct {
	// Epochs to run; defaults to 100.
	Epochs int
	// BatchSize of the contiguous batches cut from the shuffled set;
	// the last batch may be shorter. Defaults to 32.
	BatchSize int
	// DisableShuffle keeps the sample order fixed across epochs.
	DisableShuffle bool

	// ValidationInputs/ValidationTargets are evaluated after every
	// epoch when both are non-empty.
	ValidationInputs  [][]float64
	ValidationTargets [][]float64

	// EarlyStoppingPatience stops training after this many epochs
	// without the validation loss improving by more than
	// EarlyStoppingMinDelta. Zero disables early stopping. Only active
	// when validation data is present.
	EarlyStoppingPatience int
	EarlyStoppingMinDelta float64

	// Progress is called at the end of every epoch.
	Progress ProgressFunc
}

// TrainOptions converts the declarative training configuration into the
// options consumed by Train.
func (c TrainingConfig) TrainOptions() TrainOptions {
	return TrainOptions{
		Epochs:                c.Epochs,
		BatchSize:             c.BatchSize,
		DisableShuffle:        !c.Shuffle,
		EarlyStoppingPatience: c.EarlyStoppingPatience,
		EarlyStoppingMinDelta: c.EarlyStoppingMinDelta,
	}
}

// TrainSample runs one forward/backward pass on a single example in
// training mode and returns its loss.
func (n *Network) TrainSample(inputs, targets []float64) (float64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.trainSampleLocked(inputs, targets)
}

func (n *Network) trainSampleLocked(inputs, targets []float64) (float64, error) {
	outputs, err := n.forwardLocked(inputs, true)
	if err != nil {
		return 0, err
	}
	return n.backwardLocked(targets, outputs)
}

// TrainBatch trains on every sample of a batch sequentially and returns
// the batch's average loss. The network lock is held for the whole
// batch, so serialization or structural edits interleave only at batch
// boundaries.
func (n *Network) TrainBatch(inputBatch, targetBatch [][]float64) (float64, error) {
	if len(inputBatch) != len(targetBatch) {
		return 0, fmt.Errorf("mlp: train batch: %d inputs for %d targets: %w",
			len(inputBatch), len(targetBatch), ErrDimensionMismatch)
	}
	if len(inputBatch) == 0 {
		return 0, nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	total := 0.0
	for i := range inputBatch {
		sampleLoss, err := n.trainSampleLocked(inputBatch[i], targetBatch[i])
		if err != nil {
			return 0, err
		}
		total += sampleLoss
	}

	return total / float64(len(inputBatch)), nil
}

// Train runs the epoch/batch training loop.
//
// Per epoch: shuffle the training set, cut it into contiguous batches,
// train each batch, compute training accuracy, optionally evaluate the
// validation set, advance the progress fraction, and invoke the progress
// callback. A StopTraining request is honored at the next epoch
// boundary. Returns the per-epoch history; on error the history covers
// the epochs completed so far.
func (n *Network) Train(inputs, targets [][]float64, opts TrainOptions) (*History, error) {
	history := &History{}

	if len(inputs) == 0 {
		return history, fmt.Errorf("mlp: train: empty training set: %w", ErrConfiguration)
	}
	if len(inputs) != len(targets) {
		return history, fmt.Errorf("mlp: train: %d inputs for %d targets: %w",
			len(inputs), len(targets), ErrDimensionMismatch)
	}
	if n.LayerCount() == 0 {
		return history, fmt.Errorf("mlp: train: %w", ErrEmptyNetwork)
	}

	epochs := opts.Epochs
	if epochs <= 0 {
		epochs = DefaultTrainingConfig().Epochs
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultTrainingConfig().BatchSize
	}

	useValidation := len(opts.ValidationInputs) > 0 &&
		len(opts.ValidationInputs) == len(opts.ValidationTargets)

	// Copy the sample order so shuffling never reorders the caller's
	// slices. Rows are shared, not copied.
	in := make([][]float64, len(inputs))
	tg := make([][]float64, len(targets))
	copy(in, inputs)
	copy(tg, targets)

	n.training.Store(true)
	n.stop.Store(false)
	defer func() {
		n.training.Store(false)
		n.progress.Store(1)
	}()

	bestValLoss := math.Inf(1)
	epochsSinceImprovement := 0

	for epoch := 0; epoch < epochs; epoch++ {
		if n.stop.Load() {
			break
		}

		if !opts.DisableShuffle {
			n.shuffleSamples(in, tg)
		}

		batches := makeBatches(in, tg, batchSize)

		epochLoss := 0.0
		for _, b := range batches {
			batchLoss, err := n.TrainBatch(b.inputs, b.targets)
			if err != nil {
				return history, err
			}
			epochLoss += batchLoss
		}
		epochLoss /= float64(len(batches))

		trainOutputs, err := n.PredictBatch(in)
		if err != nil {
			return history, err
		}
		trainAccuracy := metrics.Accuracy(trainOutputs, tg)

		history.TrainLoss = append(history.TrainLoss, epochLoss)
		history.TrainAccuracy = append(history.TrainAccuracy, trainAccuracy)

		if useValidation {
			valLoss, valAccuracy, err := n.Evaluate(opts.ValidationInputs, opts.ValidationTargets)
			if err != nil {
				return history, err
			}
			history.ValLoss = append(history.ValLoss, valLoss)
			history.ValAccuracy = append(history.ValAccuracy, valAccuracy)

			if opts.EarlyStoppingPatience > 0 {
				if bestValLoss-valLoss > opts.EarlyStoppingMinDelta {
					bestValLoss = valLoss
					epochsSinceImprovement = 0
				} else {
					epochsSinceImprovement++
				}
			}
		}

		n.progress.Store(float64(epoch+1) / float64(epochs))

		if opts.Progress != nil {
			opts.Progress(epoch, epochLoss, trainAccuracy)
		}

		if useValidation && opts.EarlyStoppingPatience > 0 &&
			epochsSinceImprovement >= opts.EarlyStoppingPatience {
			break
		}
	}

	return history, nil
}

// Evaluate computes the average loss and the accuracy over a dataset
// using inference-mode predictions.
func (n *Network) Evaluate(inputs, targets [][]float64) (avgLoss, accuracy float64, err error) {
	if len(inputs) == 0 || len(inputs) != len(targets) {
		return 0, 0, fmt.Errorf("mlp: evaluate: %d inputs for %d targets: %w",
			len(inputs), len(targets), ErrDimensionMismatch)
	}

	outputs, err := n.PredictBatch(inputs)
	if err != nil {
		return 0, 0, err
	}

	lossType := n.LossType()
	total := 0.0
	for i, out := range outputs {
		total += lossType.Loss(out, targets[i])
	}

	return total / float64(len(outputs)), metrics.Accuracy(outputs, targets), nil
}

// shuffleSamples applies one uniform random permutation to both slices
// in lockstep, drawing from the network-owned RNG.
func (n *Network) shuffleSamples(inputs, targets [][]float64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.rng.Shuffle(len(inputs), func(i, j int) {
		inputs[i], inputs[j] = inputs[j], inputs[i]
		targets[i], targets[j] = targets[j], targets[i]
	})
}

type batch struct {
	inputs  [][]float64
	targets [][]float64
}

// makeBatches cuts the sample set into ceil(N/size) contiguous batches.
// Every sample appears exactly once, in order; the last batch may be
// shorter.
func makeBatches(inputs, targets [][]float64, size int) []batch {
	batches := make([]batch, 0, (len(inputs)+size-1)/size)

	for start := 0; start < len(inputs); start += size {
		end := start + size
		if end > len(inputs) {
			end = len(inputs)
		}
		batches = append(batches, batch{
			inputs:  inputs[start:end],
			targets: targets[start:end],
		})
	}

	return batches
}
