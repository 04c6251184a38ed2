package alloc

// Stats holds engine counters for one simulation run.
type Stats struct {
	PlaceCalls     int // Total Place() calls
	Placed         int // Placements committed
	NoSpace        int // Placements refused with ErrNoSpace
	ReleaseCalls   int // Total Release() calls
	Released       int // Releases that freed a block
	ReleaseMisses  int // Releases for ids holding nothing
	QuickHits      int // Quick Fit placements served from the index
	QuickStale     int // Index entries discarded because the range was no longer free
	QuickFallbacks int // Quick Fit placements that fell back to first fit
	UnitsPlaced    int // Units committed by Place()
	UnitsFreed     int // Units returned by Release()
}

// Fragmentation describes how the free units of a region are split up.
type Fragmentation struct {
	FreeUnits      int
	UsedUnits      int
	FreeRuns       int
	LargestFreeRun int

	// External is 1 - LargestFreeRun/FreeUnits: 0 when all free space is one
	// run, approaching 1 as free space is scattered. 0 when nothing is free.
	External float64
}

// Fragmentation summarizes the free runs of the engine's region.
func (e *Engine) Fragmentation() Fragmentation {
	f := Fragmentation{UsedUnits: e.region.Used()}
	for _, length := range e.region.FreeRuns() {
		f.FreeRuns++
		f.FreeUnits += length
		f.LargestFreeRun = max(f.LargestFreeRun, length)
	}
	if f.FreeUnits > 0 {
		f.External = 1 - float64(f.LargestFreeRun)/float64(f.FreeUnits)
	}
	return f
}
