package model

import "errors"

var (
	// ErrInvalidInput marks malformed parameters or an unusable price series.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDomain marks a window whose growth rate is undefined.
	ErrDomain = errors.New("rate undefined for window")
	// ErrEmptyInput marks a replay over zero classified records.
	ErrEmptyInput = errors.New("no classified records")
	// ErrDegenerateSpan marks a ledger whose first and last dates fall on the same day.
	ErrDegenerateSpan = errors.New("zero-day ledger span")
)
