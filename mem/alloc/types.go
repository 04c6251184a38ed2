package alloc

import (
	"fmt"
	"strings"

	"github.com/joshuapare/memfit/mem/region"
)

// Request asks for Size contiguous units on behalf of process ID.
type Request struct {
	ID   string
	Size int
}

// Block is a live allocation: Size units starting at Start.
type Block struct {
	Start int
	Size  int
}

// End returns the exclusive end of the block.
func (b Block) End() int { return b.Start + b.Size }

// Overlaps reports whether b and o share at least one unit.
func (b Block) Overlaps(o Block) bool {
	return b.Start < o.End() && o.Start < b.End()
}

// Kind identifies a placement strategy.
type Kind uint8

const (
	FirstFit Kind = iota + 1
	NextFit
	BestFit
	WorstFit
	QuickFit
)

func (k Kind) String() string {
	switch k {
	case FirstFit:
		return "First Fit"
	case NextFit:
		return "Next Fit"
	case BestFit:
		return "Best Fit"
	case WorstFit:
		return "Worst Fit"
	case QuickFit:
		return "Quick Fit"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Short returns the flag spelling of k ("first", "next", ...).
func (k Kind) Short() string {
	name, _, _ := strings.Cut(strings.ToLower(k.String()), " ")
	return name
}

// Kinds returns every strategy in simulation order.
func Kinds() []Kind {
	return []Kind{FirstFit, NextFit, BestFit, QuickFit, WorstFit}
}

// ParseKind accepts "first", "first-fit", "FirstFit", "First Fit" and the
// like for every strategy.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(norm)
	norm = strings.TrimSuffix(norm, "fit")

	for _, k := range Kinds() {
		if norm == k.Short() {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Choice is a strategy's answer for one request.
type Choice struct {
	Offset    int
	FromIndex bool // offset came from the Quick Fit index
	Stale     int  // stale index entries discarded while choosing
}

// Strategy chooses where a request of size units goes. Implementations must
// not mutate the region; the engine commits the choice.
type Strategy interface {
	Kind() Kind
	Find(r *region.Region, idx *QuickFitIndex, size int) (Choice, bool)
	Reset()
}

// placementObserver is implemented by strategies that keep state across
// placements (Next Fit's cursor). The engine calls placed after a commit
// succeeds.
type placementObserver interface {
	placed(off, size int)
}
