package domain

import "errors"

var (
	// ErrMalformedStrike wraps any failure to decode or validate a strike record.
	ErrMalformedStrike = errors.New("malformed strike")

	// ErrEmptyRegistry means no usable asset was loaded. Matching against an
	// empty index can never alert, so callers treat it as fatal.
	ErrEmptyRegistry = errors.New("asset registry is empty")
)
