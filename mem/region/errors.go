package region

import "errors"

var (
	// ErrInvalidRange indicates a double occupy, a double free, or a range
	// outside the region. Seeing it means the caller's bookkeeping disagrees
	// with the region.
	ErrInvalidRange = errors.New("region: invalid range")

	// ErrBadCapacity indicates a region was requested with a non-positive capacity.
	ErrBadCapacity = errors.New("region: capacity must be positive")
)
