package types

import "errors"

// Domain errors for type validation
var (
	ErrUnknownMetric = errors.New("unknown metric name")
	ErrInvalidWeight = errors.New("metric weight must be between 0 and 1")
	ErrEmptyChunkID  = errors.New("chunk ID cannot be empty")
)
