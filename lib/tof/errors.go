package tof

import (
	"errors"
)

var (
	// ErrNoState is returned when an operation needs allocated state.
	ErrNoState = errors.New("tof state has not been allocated")
	// ErrAlreadyAllocated is logged when Allocate is called twice.
	ErrAlreadyAllocated = errors.New("tof state is already allocated")
	// ErrNotFinalized is returned by field accessors before Finalize.
	ErrNotFinalized = errors.New("tof state has not been finalized")
	// ErrResolve is returned when a particle field cannot be resolved.
	ErrResolve = errors.New("particle field could not be resolved")
	// ErrRecorderMismatch is returned when a particle buffer and a table
	// disagree on the number of recorders.
	ErrRecorderMismatch = errors.New("recorder count mismatch")
	// ErrIndexRange is returned for recorder indices outside the buffer.
	ErrIndexRange = errors.New("recorder index out of bounds")
)
