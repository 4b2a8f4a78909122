package edtf

import "github.com/cockroachdb/errors"

// Builder validation failures. Extractors surface these and the orchestrator
// turns them into a no-match.
var (
	ErrYearOutOfRange = errors.New("year out of range")
	ErrFutureDate     = errors.New("date is in the future")
	ErrInvalidMonth   = errors.New("invalid month")
	ErrInvalidDay     = errors.New("invalid day")
	ErrNoBoundary     = errors.New("interval has no declared boundary")
	ErrStartAfterEnd  = errors.New("interval start is after its end")
)
