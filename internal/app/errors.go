package service

import "errors"

// Sentinel kinds for analytics service errors.
var (
	ErrNotStarted       = errors.New("service not started")
	ErrTrackNotFound    = errors.New("track not found")
	ErrDriverNotFound   = errors.New("driver not found")
	ErrInsufficientData = errors.New("insufficient data for coaching")
	ErrTooManyDrivers   = errors.New("too many drivers to compare")
	ErrBadImprovement   = errors.New("improvement percentage out of range")
)
