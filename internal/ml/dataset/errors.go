package dataset

import "errors"

var (
	ErrEmptyDataset      = errors.New("empty dataset")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrInvalidRatio      = errors.New("invalid test ratio")
	ErrTooFewRows        = errors.New("too few rows for the requested split")
)
