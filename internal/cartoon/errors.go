package cartoon

import "errors"

var (
	// ErrDecodeFailure reports a source that is not a usable color image.
	ErrDecodeFailure = errors.New("image decode failure")

	// ErrInvalidConfiguration reports a Config rejected by Validate.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrDimensionMismatch reports an edge mask whose size could not be reconciled
	// with the color layer. It indicates a bug in the pipeline, not bad input.
	ErrDimensionMismatch = errors.New("edge mask and color layer dimensions differ")
)
