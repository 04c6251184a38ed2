package alloc

import "errors"

var (
	// ErrNoSpace indicates that no free range large enough was found. It is
	// recoverable: the region is unchanged.
	ErrNoSpace = errors.New("alloc: no space")

	// ErrBadSize indicates a request for zero or negative units.
	ErrBadSize = errors.New("alloc: size must be positive")

	// ErrAlreadyPlaced indicates a request for a process that already holds a block.
	ErrAlreadyPlaced = errors.New("alloc: process already placed")

	// ErrUnknownKind indicates a strategy name that ParseKind does not recognize.
	ErrUnknownKind = errors.New("alloc: unknown strategy")
)
