package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the root of all input validation errors.
	ErrValidation = errors.New("validation error")

	// ErrInvalidInterval is returned for intervals with start >= end.
	ErrInvalidInterval = fmt.Errorf("%w: invalid interval", ErrValidation)

	// ErrInvalidDayOfWeek is returned for unknown day names or numbers.
	ErrInvalidDayOfWeek = fmt.Errorf("%w: invalid day of week", ErrValidation)

	// ErrInvalidTimeRange is returned for wall-clock ranges with start >= end or malformed times.
	ErrInvalidTimeRange = fmt.Errorf("%w: invalid time range", ErrValidation)

	// ErrOverlappingRules is returned when two enabled rules of the same day overlap.
	ErrOverlappingRules = fmt.Errorf("%w: overlapping weekly hours rules", ErrValidation)

	// ErrInvalidStatus is returned for unknown booking statuses.
	ErrInvalidStatus = fmt.Errorf("%w: invalid booking status", ErrValidation)

	// ErrInvalidTimezone is returned when the tenant timezone is not a valid IANA zone.
	ErrInvalidTimezone = errors.New("invalid tenant timezone")

	// ErrIllegalTransition is returned when the booking state machine forbids a transition.
	ErrIllegalTransition = errors.New("illegal booking status transition")
)
