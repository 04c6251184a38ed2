package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestEngine creates an engine of the given capacity for kind.
func newTestEngine(t testing.TB, capacity int, kind Kind) *Engine {
	t.Helper()
	e, err := NewEngine(capacity, New(kind))
	require.NoError(t, err)
	return e
}

// mustPlace places id and fails the test on any error.
func mustPlace(t testing.TB, e *Engine, id string, size int) int {
	t.Helper()
	off, err := e.Place(Request{ID: id, Size: size})
	require.NoError(t, err, "place %s (%d units)", id, size)
	return off
}

// mustRelease releases id and fails the test unless a block was freed.
func mustRelease(t testing.TB, e *Engine, id string) {
	t.Helper()
	ok, err := e.Release(id)
	require.NoError(t, err, "release %s", id)
	require.True(t, ok, "release %s freed nothing", id)
}

// layout occupies the region according to blocks, one process per entry,
// then releases the processes listed in holes. Placement uses first fit
// semantics through the given engine, so callers should build layouts left to
// right on an empty engine.
func layout(t testing.TB, e *Engine, sizes []int, holes ...int) []string {
	t.Helper()
	ids := make([]string, len(sizes))
	for i, n := range sizes {
		ids[i] = "L" + string(rune('A'+i))
		mustPlace(t, e, ids[i], n)
	}
	for _, h := range holes {
		mustRelease(t, e, ids[h])
	}
	return ids
}
