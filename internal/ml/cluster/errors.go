package cluster

import "errors"

var (
	ErrEmptyInput        = errors.New("empty clustering input")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrTooFewRows        = errors.New("fewer rows than clusters")
	ErrNotFitted         = errors.New("model not fitted")
)
