package stats

import "errors"

var (
	// ErrInvalidInput is returned when a batch is empty or contains a
	// non-finite observation. The accumulator is left untouched.
	ErrInvalidInput = errors.New("stats: invalid input")

	// ErrInsufficientData is returned when a variance or two-sample
	// comparison needs at least two observations on a side.
	ErrInsufficientData = errors.New("stats: insufficient data")
)
