package alloc

import (
	"slices"

	"github.com/gammazero/deque"
)

// QuickFitIndex maps an exact block size to the offsets freed at that size,
// oldest first. Only Release appends to it and only Quick Fit consumes it.
type QuickFitIndex struct {
	queues map[int]*deque.Deque[int]
}

func newQuickFitIndex() *QuickFitIndex {
	return &QuickFitIndex{queues: make(map[int]*deque.Deque[int])}
}

func (x *QuickFitIndex) push(size, off int) {
	q, ok := x.queues[size]
	if !ok {
		q = new(deque.Deque[int])
		x.queues[size] = q
	}
	q.PushBack(off)
}

// pop removes and returns the oldest offset queued for size.
func (x *QuickFitIndex) pop(size int) (int, bool) {
	q, ok := x.queues[size]
	if !ok || q.Len() == 0 {
		return 0, false
	}
	off := q.PopFront()
	if q.Len() == 0 {
		delete(x.queues, size)
	}
	return off, true
}

// Len returns the number of offsets queued for size.
func (x *QuickFitIndex) Len(size int) int {
	if q, ok := x.queues[size]; ok {
		return q.Len()
	}
	return 0
}

// Total returns the number of queued offsets across all sizes.
func (x *QuickFitIndex) Total() int {
	n := 0
	for _, q := range x.queues {
		n += q.Len()
	}
	return n
}

// Sizes returns every size with at least one queued offset, ascending.
func (x *QuickFitIndex) Sizes() []int {
	sizes := make([]int, 0, len(x.queues))
	for size := range x.queues {
		sizes = append(sizes, size)
	}
	slices.Sort(sizes)
	return sizes
}

// Queued returns a copy of the offsets queued for size, oldest first.
func (x *QuickFitIndex) Queued(size int) []int {
	q, ok := x.queues[size]
	if !ok {
		return nil
	}
	out := make([]int, q.Len())
	for i := range out {
		out[i] = q.At(i)
	}
	return out
}

func (x *QuickFitIndex) reset() { clear(x.queues) }
