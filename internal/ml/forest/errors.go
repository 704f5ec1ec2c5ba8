package forest

import "errors"

// Sentinel kinds for training and prediction errors.
var (
	ErrEmptyInput        = errors.New("empty training input")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrTooFewRows        = errors.New("too few rows to train")
	ErrDegenerateTarget  = errors.New("degenerate target: no variance")
	ErrNotTrained        = errors.New("model not trained")
)
