package sim

import "errors"

var (
	// ErrEmptySequence rejects a start with nothing to sort or search.
	ErrEmptySequence = errors.New("sim: empty array")

	// ErrTargetUnset rejects a search start without a target value.
	ErrTargetUnset = errors.New("sim: search target is not set")

	// ErrInvalidTarget indicates a NaN or infinite search target.
	ErrInvalidTarget = errors.New("sim: search target must be a finite number")

	// ErrRunInProgress guards mutations while a run owns the sequence.
	ErrRunInProgress = errors.New("sim: a run is already in progress")

	// ErrIndexOutOfRange is a driver contract violation.
	ErrIndexOutOfRange = errors.New("sim: index out of range")

	// ErrEmptyInput indicates that input contained no usable numbers.
	ErrEmptyInput = errors.New("sim: input has no valid numbers")
)
