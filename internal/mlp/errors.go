package mlp

import "errors"

// Sentinel errors returned by engine operations. Callers match them with
// errors.Is; the wrapped messages carry the operation and the offending
// sizes.
var (
	// ErrDimensionMismatch reports an input, target, or weight vector
	// whose length does not match the layer it was applied to.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrEmptyNetwork reports an operation that needs at least one layer.
	ErrEmptyNetwork = errors.New("network has no layers")

	// ErrConfiguration reports an invalid network or layer configuration,
	// such as a zero-size layer.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrParse reports a malformed persisted network document.
	ErrParse = errors.New("malformed network document")
)
