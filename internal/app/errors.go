package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted          = errors.New("service not started")
	ErrDuplicateSubmission = errors.New("duplicate submission")
	ErrBackpressure        = errors.New("report queue full")
)
