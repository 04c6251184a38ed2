// Package buf holds overflow-safe range arithmetic shared by the region and
// allocator packages.
package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// CheckRange validates that the n units starting at start fit inside a region
// of capacity units. Returns the exclusive end of the range if valid, or an
// error describing the specific failure (negative input, overflow or out of
// bounds).
//
//	end, err := buf.CheckRange(r.Capacity(), start, n)
//	if err != nil {
//	    return fmt.Errorf("occupy: %w", err)
//	}
//	// Safe to touch units start..end-1
func CheckRange(capacity, start, n int) (int, error) {
	if start < 0 {
		return 0, fmt.Errorf("negative start: %d", start)
	}
	if n <= 0 {
		return 0, fmt.Errorf("non-positive length: %d", n)
	}

	end, ok := AddOverflowSafe(start, n)
	if !ok {
		return 0, fmt.Errorf("overflow: start=%d + len=%d", start, n)
	}

	if end > capacity {
		return 0, fmt.Errorf("bounds: end=%d > capacity=%d", end, capacity)
	}

	return end, nil
}

// InRange reports whether [start, start+n) lies within [0, capacity).
func InRange(capacity, start, n int) bool {
	_, err := CheckRange(capacity, start, n)
	return err == nil
}
