// Package alloc implements contiguous placement strategies over a flat memory
// region.
//
// # Overview
//
// The Engine owns one region.Region, one allocation Table and one
// QuickFitIndex. A Strategy only chooses where a request should go; the
// engine commits the choice to the region and the table as a single step, so
// a caller never observes a half-placed block.
//
// # Entry Points
//
// The driver talks to the engine through three calls:
//
//   - Reset(): all units free, empty table, empty index, strategy state cleared
//   - Place(req): choose an offset and commit it, or return ErrNoSpace
//   - Release(id): free the block owned by id; false when id holds nothing
//
// # Strategies
//
//	FirstFit: lowest offset where the request fits
//	NextFit:  like FirstFit, but the scan starts at the cursor and wraps
//	BestFit:  smallest free run that fits (first run wins ties)
//	WorstFit: largest free run that fits (first run wins ties)
//	QuickFit: reuse an offset freed at exactly this size, else FirstFit
//
// Best Fit and Worst Fit share one run selector; they differ only in the
// comparison used to rank qualifying runs.
//
// # Usage Example
//
//	e, err := alloc.NewEngine(32, alloc.New(alloc.BestFit))
//	if err != nil {
//	    return err
//	}
//
//	off, err := e.Place(alloc.Request{ID: "P1", Size: 5})
//	switch {
//	case errors.Is(err, alloc.ErrNoSpace):
//	    // recoverable, try again later
//	case err != nil:
//	    return err // invariant breach
//	}
//
//	ok, err := e.Release("P1")
//
// # Quick Fit Index
//
// Every release appends (size -> start) to the index, whatever the active
// strategy is. The index is a hint: Quick Fit re-checks each dequeued offset
// against the region and drops stale entries, which appear once a First Fit
// fallback places a smaller block over a queued range.
//
// # Thread Safety
//
// Engine instances are not thread-safe. Callers must serialize Place, Release
// and Reset against one engine.
package alloc
