// Package main provides the NetViz engine CLI.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/netviz-ml/netviz/dataset"
	"github.com/netviz-ml/netviz/internal/metrics"
	"github.com/netviz-ml/netviz/mlp"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("NetViz engine %s\n", version)
	case "xor":
		runXOR(os.Args[2:])
	case "train":
		runTrain(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("NetViz - neural network engine for real-time visualization")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version          Show version")
	fmt.Println("  xor              Train the XOR demo network")
	fmt.Println("  train <csv>      Train a network on a CSV dataset")
}

func runXOR(args []string) {
	fs := flag.NewFlagSet("xor", flag.ExitOnError)
	epochs := fs.Int("epochs", 1000, "training epochs")
	seed := fs.Int64("seed", 42, "RNG seed (0 draws from the clock)")
	out := fs.String("out", "", "save the trained network to this file")
	fs.Parse(args)

	net, err := mlp.New(mlp.Config{
		Name: "xor",
		Layers: []mlp.LayerConfig{
			{Size: 2, Activation: mlp.ActivationNone, Trainable: true},
			{Size: 4, Activation: mlp.ActivationReLU, WeightInit: mlp.InitXavier, Trainable: true},
			{Size: 1, Activation: mlp.ActivationSigmoid, WeightInit: mlp.InitXavier, Trainable: true},
		},
		Loss:     mlp.LossMSE,
		Training: mlp.TrainingConfig{LearningRate: 0.1},
		Seed:     *seed,
	})
	if err != nil {
		log.Fatalf("build network: %v", err)
	}

	inputs := [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	targets := [][]float64{{0}, {1}, {1}, {0}}

	history, err := net.Train(inputs, targets, mlp.TrainOptions{
		Epochs:    *epochs,
		BatchSize: 4,
		Progress: func(epoch int, loss, accuracy float64) {
			if (epoch+1)%100 == 0 {
				fmt.Printf("epoch %4d  loss %.6f  accuracy %.2f\n", epoch+1, loss, accuracy)
			}
		},
	})
	if err != nil {
		log.Fatalf("train: %v", err)
	}

	summary := metrics.Summarize(history.TrainLoss)
	fmt.Printf("\nloss: first %.6f  last %.6f  mean %.6f\n", summary.First, summary.Last, summary.Mean)

	for _, in := range inputs {
		pred, err := net.Predict(in)
		if err != nil {
			log.Fatalf("predict: %v", err)
		}
		fmt.Printf("%v -> %.4f\n", in, pred[0])
	}

	if *out != "" {
		if err := net.SaveFile(*out); err != nil {
			log.Fatalf("save: %v", err)
		}
		fmt.Printf("saved network to %s\n", *out)
	}
}

func runTrain(args []string) {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	epochs := fs.Int("epochs", 100, "training epochs")
	batchSize := fs.Int("batch", 32, "batch size")
	lr := fs.Float64("lr", 0.01, "learning rate")
	hidden := fs.Int("hidden", 16, "hidden layer size")
	valSplit := fs.Float64("val", 0.2, "validation split")
	seed := fs.Int64("seed", 0, "RNG seed (0 draws from the clock)")
	out := fs.String("out", "", "save the trained network to this file")
	fs.Parse(args)

	if fs.NArg() < 1 {
		log.Fatal("train: missing CSV path")
	}
	path := fs.Arg(0)

	d, err := dataset.LoadCSV(path, -1, true)
	if err != nil {
		log.Fatalf("load: %v", err)
	}
	dataset.Normalize(d.Inputs)

	train, val := d.Split(*valSplit)
	fmt.Printf("loaded %d samples (%d train, %d validation)\n", d.Len(), train.Len(), val.Len())

	net, err := mlp.New(mlp.Config{
		Name: path,
		Layers: []mlp.LayerConfig{
			{Size: len(d.Inputs[0]), Activation: mlp.ActivationNone, Trainable: true},
			{Size: *hidden, Activation: mlp.ActivationReLU, WeightInit: mlp.InitHe, Trainable: true},
			{Size: 1, Activation: mlp.ActivationSigmoid, WeightInit: mlp.InitXavier, Trainable: true},
		},
		Loss:     mlp.LossMSE,
		Training: mlp.TrainingConfig{LearningRate: *lr},
		Seed:     *seed,
	})
	if err != nil {
		log.Fatalf("build network: %v", err)
	}

	history, err := net.Train(train.Inputs, train.Targets, mlp.TrainOptions{
		Epochs:            *epochs,
		BatchSize:         *batchSize,
		ValidationInputs:  val.Inputs,
		ValidationTargets: val.Targets,
		Progress: func(epoch int, loss, accuracy float64) {
			if (epoch+1)%10 == 0 {
				fmt.Printf("epoch %4d  loss %.6f  accuracy %.2f\n", epoch+1, loss, accuracy)
			}
		},
	})
	if err != nil {
		log.Fatalf("train: %v", err)
	}

	if len(history.ValLoss) > 0 {
		fmt.Printf("final validation loss %.6f  accuracy %.2f\n",
			history.ValLoss[len(history.ValLoss)-1],
			history.ValAccuracy[len(history.ValAccuracy)-1])
	}

	if *out != "" {
		if err := net.SaveFile(*out); err != nil {
			log.Fatalf("save: %v", err)
		}
		fmt.Printf("saved network to %s\n", *out)
	}
}
