package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest     = errors.New("bad request")
	ErrMissingTrack   = errors.New("missing track parameter")
	ErrMissingDriver  = errors.New("missing driver parameter")
	ErrMissingDrivers = errors.New("missing drivers parameter")
)
