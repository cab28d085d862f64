package metrics

import "errors"

var (
	// ErrInvalidInput is returned for a malformed holdings table, before any price lookup.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPriceUnavailable is returned when a non-cash ticker cannot be priced.
	// The run aborts: a missing price would corrupt every weight and total.
	ErrPriceUnavailable = errors.New("price unavailable")
)
