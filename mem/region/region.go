package region

import (
	"fmt"
	"iter"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/joshuapare/memfit/internal/buf"
)

// State is the occupancy of a single unit.
type State uint8

const (
	// Free units may be handed out by any strategy.
	Free State = 0
	// Occupied units belong to exactly one live allocation.
	Occupied State = 1
)

func (s State) String() string {
	if s == Occupied {
		return "1"
	}
	return "0"
}

// MarshalJSON encodes s as the number 0 or 1.
func (s State) MarshalJSON() ([]byte, error) {
	return []byte(s.String()), nil
}

// Region is a fixed-capacity sequence of units.
type Region struct {
	capacity int
	bits     *bitset.BitSet // set bit = occupied
	owners   []string       // owner label per unit, "" when free
}

// New creates a region of capacity units, all Free.
func New(capacity int) (*Region, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadCapacity, capacity)
	}
	return &Region{
		capacity: capacity,
		bits:     bitset.New(uint(capacity)),
		owners:   make([]string, capacity),
	}, nil
}

// Capacity returns the number of units in the region.
func (r *Region) Capacity() int { return r.capacity }

// Used returns the number of occupied units.
func (r *Region) Used() int { return int(r.bits.Count()) }

// FreeUnits returns the number of free units.
func (r *Region) FreeUnits() int { return r.capacity - r.Used() }

// IsFree reports whether every unit in [start, start+n) is free and the range
// lies within the region.
func (r *Region) IsFree(start, n int) bool {
	end, err := buf.CheckRange(r.capacity, start, n)
	if err != nil {
		return false
	}
	for u := start; u < end; u++ {
		if r.bits.Test(uint(u)) {
			return false
		}
	}
	return true
}

// Occupy marks [start, start+n) occupied by owner.
func (r *Region) Occupy(start, n int, owner string) error {
	end, err := buf.CheckRange(r.capacity, start, n)
	if err != nil {
		return fmt.Errorf("%w: occupy: %w", ErrInvalidRange, err)
	}
	for u := start; u < end; u++ {
		if r.bits.Test(uint(u)) {
			return fmt.Errorf("%w: occupy [%d,%d): unit %d already occupied by %q",
				ErrInvalidRange, start, end, u, r.owners[u])
		}
	}

	for u := start; u < end; u++ {
		r.bits.Set(uint(u))
		r.owners[u] = owner
	}
	return nil
}

// Free marks [start, start+n) free.
func (r *Region) Free(start, n int) error {
	end, err := buf.CheckRange(r.capacity, start, n)
	if err != nil {
		return fmt.Errorf("%w: free: %w", ErrInvalidRange, err)
	}
	for u := start; u < end; u++ {
		if !r.bits.Test(uint(u)) {
			return fmt.Errorf("%w: free [%d,%d): unit %d already free", ErrInvalidRange, start, end, u)
		}
	}

	for u := start; u < end; u++ {
		r.bits.Clear(uint(u))
		r.owners[u] = ""
	}
	return nil
}

// Owner returns the owner of unit u, or "" if u is free or out of range.
func (r *Region) Owner(u int) string {
	if !buf.InRange(r.capacity, u, 1) {
		return ""
	}
	return r.owners[u]
}

// FreeRuns yields (start, length) for every maximal run of free units, in
// ascending start order.
func (r *Region) FreeRuns() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		next := 0
		for next < r.capacity {
			s, ok := r.bits.NextClear(uint(next))
			if !ok || int(s) >= r.capacity {
				return
			}
			start := int(s)

			end := r.capacity
			if e, ok := r.bits.NextSet(s); ok && int(e) < r.capacity {
				end = int(e)
			}

			if !yield(start, end-start) {
				return
			}
			next = end
		}
	}
}

// Snapshot returns a copy of every unit's state.
func (r *Region) Snapshot() []State {
	out := make([]State, r.capacity)
	for u := range out {
		if r.bits.Test(uint(u)) {
			out[u] = Occupied
		}
	}
	return out
}

// Reset frees every unit.
func (r *Region) Reset() {
	r.bits.ClearAll()
	clear(r.owners)
}

// String renders the region as one digit per unit, e.g. "1111100000".
func (r *Region) String() string {
	var sb strings.Builder
	sb.Grow(r.capacity)
	for _, s := range r.Snapshot() {
		sb.WriteString(s.String())
	}
	return sb.String()
}
