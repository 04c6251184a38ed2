package verify

import (
	"fmt"

	"github.com/joshuapare/memfit/mem/alloc"
	"github.com/joshuapare/memfit/mem/region"
)

// ValidationError describes a broken invariant.
type ValidationError struct {
	Type    string
	Message string
	Unit    int // first offending unit, -1 if N/A
	Details map[string]any
}

func (e *ValidationError) Error() string {
	if e.Unit >= 0 {
		return fmt.Sprintf("%s at unit %d: %s", e.Type, e.Unit, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates every engine invariant in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(e *alloc.Engine) error {
	if err := NoOverlap(e); err != nil {
		return err
	}
	if err := Conservation(e); err != nil {
		return err
	}
	return Owners(e)
}

// Conservation checks that the number of occupied units equals the sum of
// live allocation sizes.
func Conservation(e *alloc.Engine) error {
	used := e.Region().Used()
	live := e.Table().UsedUnits()
	if used != live {
		return &ValidationError{
			Type:    "Conservation",
			Message: fmt.Sprintf("region has %d occupied units, table accounts for %d", used, live),
			Unit:    -1,
			Details: map[string]any{"occupied": used, "live": live},
		}
	}
	return nil
}

// NoOverlap checks that every live block lies inside the region and that no
// two live blocks share a unit.
func NoOverlap(e *alloc.Engine) error {
	return Blocks(e.Capacity(), e.Table().Entries())
}

// Blocks checks entries, which must be ordered by start, against a region of
// the given capacity.
func Blocks(capacity int, entries []alloc.Entry) error {
	for i, cur := range entries {
		if cur.Start < 0 || cur.Size <= 0 || cur.End() > capacity {
			return &ValidationError{
				Type:    "NoOverlap",
				Message: fmt.Sprintf("%s block [%d,%d) outside region of %d units", cur.ID, cur.Start, cur.End(), capacity),
				Unit:    max(cur.Start, 0),
			}
		}
		if i == 0 {
			continue
		}
		prev := entries[i-1]
		if prev.Overlaps(cur.Block) {
			return &ValidationError{
				Type: "NoOverlap",
				Message: fmt.Sprintf("%s [%d,%d) overlaps %s [%d,%d)",
					prev.ID, prev.Start, prev.End(), cur.ID, cur.Start, cur.End()),
				Unit:    cur.Start,
				Details: map[string]any{"first": prev.ID, "second": cur.ID},
			}
		}
	}
	return nil
}

// Owners checks unit-level agreement between the region and the table.
func Owners(e *alloc.Engine) error {
	r := e.Region()
	owned := make([]string, r.Capacity())

	for _, ent := range e.Table().Entries() {
		for u := ent.Start; u < ent.End() && u < len(owned); u++ {
			owned[u] = ent.ID
			if got := r.Owner(u); got != ent.ID {
				return &ValidationError{
					Type:    "Owners",
					Message: fmt.Sprintf("unit belongs to %s in table but %q in region", ent.ID, got),
					Unit:    u,
				}
			}
		}
	}

	for u, s := range r.Snapshot() {
		if owned[u] == "" && s == region.Occupied {
			return &ValidationError{
				Type:    "Owners",
				Message: fmt.Sprintf("unit occupied by %q but no live block covers it", r.Owner(u)),
				Unit:    u,
			}
		}
	}
	return nil
}
