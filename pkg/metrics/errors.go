package metrics

import "errors"

// Sentinel kinds for metrics errors.
var (
	ErrRegister = errors.New("metric registration failed")
	ErrServe    = errors.New("metrics serve failed")
)
