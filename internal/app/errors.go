package service

import "errors"

// Service errors.
var (
	ErrEmptyCell   = errors.New("empty plan cell")
	ErrEmptyPlan   = errors.New("plan has no weeks")
	ErrNotStarted  = errors.New("service not started")
	ErrQueueFull   = errors.New("cell queue full")
	ErrDrainAbort  = errors.New("drain aborted")
	ErrInvalidPlan = errors.New("invalid plan document")
)
