// Package mlp implements the feed-forward neural network engine: units,
// layers, the network with its training loop, and JSON persistence.
//
// The engine is the data source for a real-time visualizer; rendering,
// layout, and UI live elsewhere and consume the accessor surface
// (per-layer activations, biases, weight matrices, training progress).
// All weight- and state-mutating operations are serialized behind one
// network lock so snapshots taken mid-training are always consistent.
package mlp
