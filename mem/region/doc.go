// Package region models a fixed-size flat memory region made of addressable
// units, each either Free or Occupied.
//
// # Overview
//
// A Region is the ground truth of occupancy for the allocator engine in
// mem/alloc. Occupancy is kept in a bitmap (set bit = occupied) alongside the
// owner label of every occupied unit, so invariant checks in mem/verify can
// cross-check the region against the allocation table.
//
// # Mutation
//
// Only two calls mutate a region:
//
//   - Occupy(start, n, owner): fails with ErrInvalidRange if any unit is
//     already occupied or the range leaves [0, capacity)
//   - Free(start, n): fails with ErrInvalidRange on a double free
//
// Both validate the whole range before touching a single unit, so a failed
// call leaves the region exactly as it was.
//
// # Free Runs
//
// FreeRuns yields every maximal run of free units in ascending start order:
//
//	for start, length := range r.FreeRuns() {
//	    fmt.Printf("free [%d,%d)\n", start, start+length)
//	}
//
// Each call performs a fresh scan, so the sequence can be restarted at will.
//
// # Thread Safety
//
// Region instances are not thread-safe. Callers must serialize every Occupy,
// Free and Reset against one region.
package region
