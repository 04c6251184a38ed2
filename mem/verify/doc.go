// Package verify checks the bookkeeping invariants of an allocator engine.
//
// # Overview
//
// The engine keeps the same facts in two places: the region's occupancy
// bitmap and the allocation table. These checks confirm that the two agree.
// They are used by the simulation driver after every step (when enabled) and
// by property tests.
//
// # Quick Start
//
//	if err := verify.AllInvariants(e); err != nil {
//	    var verr *verify.ValidationError
//	    if errors.As(err, &verr) {
//	        fmt.Printf("%s at unit %d: %s\n", verr.Type, verr.Unit, verr.Message)
//	    }
//	}
//
// # Checks
//
//   - Conservation: occupied units == sum of live block sizes
//   - NoOverlap: live blocks are in range and pairwise disjoint
//   - Owners: every unit of a live block is owned by that block's process,
//     and no unit outside a live block is occupied
package verify
