package alloc

import (
	"github.com/joshuapare/memfit/mem/region"
)

// New returns a fresh strategy of the given kind, or nil for an unknown kind.
func New(k Kind) Strategy {
	switch k {
	case FirstFit:
		return &firstFit{}
	case NextFit:
		return &nextFit{}
	case BestFit:
		return &runFit{kind: BestFit, better: func(candidate, best int) bool { return candidate < best }}
	case WorstFit:
		return &runFit{kind: WorstFit, better: func(candidate, best int) bool { return candidate > best }}
	case QuickFit:
		return &quickFit{}
	default:
		return nil
	}
}

// firstFit returns the lowest offset where size units are free.
type firstFit struct{}

func (*firstFit) Kind() Kind { return FirstFit }

func (*firstFit) Find(r *region.Region, _ *QuickFitIndex, size int) (Choice, bool) {
	off, ok := scanFrom(r, size)
	return Choice{Offset: off}, ok
}

func (*firstFit) Reset() {}

func scanFrom(r *region.Region, size int) (int, bool) {
	for off := 0; off <= r.Capacity()-size; off++ {
		if r.IsFree(off, size) {
			return off, true
		}
	}
	return 0, false
}

// nextFit scans like firstFit but starts at the cursor and wraps. A block
// itself never wraps past the end of the region.
type nextFit struct {
	cursor int // next scan start, taken modulo capacity
}

func (*nextFit) Kind() Kind { return NextFit }

func (n *nextFit) Find(r *region.Region, _ *QuickFitIndex, size int) (Choice, bool) {
	capacity := r.Capacity()
	for i := range capacity {
		start := (n.cursor + i) % capacity
		if r.IsFree(start, size) {
			return Choice{Offset: start}, true
		}
	}
	return Choice{}, false
}

func (n *nextFit) placed(off, size int) { n.cursor = off + size }

func (n *nextFit) Reset() { n.cursor = 0 }

// runFit ranks maximal free runs that can hold the request. better reports
// whether a candidate run length beats the current best; strict comparisons
// keep the first run on ties.
type runFit struct {
	kind   Kind
	better func(candidate, best int) bool
}

func (f *runFit) Kind() Kind { return f.kind }

func (f *runFit) Find(r *region.Region, _ *QuickFitIndex, size int) (Choice, bool) {
	best, bestLen := -1, 0
	for start, length := range r.FreeRuns() {
		if length < size {
			continue
		}
		if best < 0 || f.better(length, bestLen) {
			best, bestLen = start, length
		}
	}
	if best < 0 {
		return Choice{}, false
	}
	return Choice{Offset: best}, true
}

func (*runFit) Reset() {}

// quickFit reuses the oldest offset freed at exactly this size, falling back
// to first fit.
type quickFit struct{}

func (*quickFit) Kind() Kind { return QuickFit }

func (*quickFit) Find(r *region.Region, idx *QuickFitIndex, size int) (Choice, bool) {
	stale := 0
	for {
		off, ok := idx.pop(size)
		if !ok {
			break
		}
		if r.IsFree(off, size) {
			return Choice{Offset: off, FromIndex: true, Stale: stale}, true
		}
		// Range was reused by a smaller fallback placement since it was freed.
		stale++
	}

	off, ok := scanFrom(r, size)
	return Choice{Offset: off, Stale: stale}, ok
}

func (*quickFit) Reset() {}
