package dynamo

import "errors"

// Domain errors for simulation lifecycle operations.
var (
	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrNoSurface indicates no drawable surface was available at start.
	ErrNoSurface = errors.New("dynamo: no drawing surface available")

	// ErrInvalidViewport indicates a non-positive or non-finite viewport.
	ErrInvalidViewport = errors.New("dynamo: invalid viewport")

	// ErrAlreadyRunning indicates Start was called on a running simulation.
	ErrAlreadyRunning = errors.New("dynamo: simulation already running")
)
