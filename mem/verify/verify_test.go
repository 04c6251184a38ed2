package verify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memfit/mem/alloc"
)

func newEngine(t *testing.T) *alloc.Engine {
	t.Helper()
	e, err := alloc.NewEngine(16, alloc.New(alloc.FirstFit))
	require.NoError(t, err)
	return e
}

// TestAllInvariants_Valid tests a consistent engine after mixed operations.
func TestAllInvariants_Valid(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, AllInvariants(e), "empty engine is consistent")

	for i, n := range []int{3, 5, 2} {
		_, err := e.Place(alloc.Request{ID: string(rune('A' + i)), Size: n})
		require.NoError(t, err)
	}
	_, err := e.Release("B")
	require.NoError(t, err)

	require.NoError(t, AllInvariants(e))
}

// TestConservation_StrayUnit tests detection of an occupied unit the table
// does not know about.
func TestConservation_StrayUnit(t *testing.T) {
	e := newEngine(t)
	_, err := e.Place(alloc.Request{ID: "A", Size: 4})
	require.NoError(t, err)
	require.NoError(t, e.Region().Occupy(10, 2, "ghost"))

	err = Conservation(e)
	require.Error(t, err)
	require.Contains(t, err.Error(), "6 occupied units")

	err = Owners(e)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "Owners", verr.Type)
	require.Equal(t, 10, verr.Unit)
}

// TestOwners_MissingUnits tests detection of a live block whose units were
// freed behind the engine's back.
func TestOwners_MissingUnits(t *testing.T) {
	e := newEngine(t)
	_, err := e.Place(alloc.Request{ID: "A", Size: 4})
	require.NoError(t, err)
	require.NoError(t, e.Region().Free(2, 2))

	err = AllInvariants(e)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "Conservation", verr.Type)

	err = Owners(e)
	require.True(t, errors.As(err, &verr))
	require.Equal(t, 2, verr.Unit)
}

// TestBlocks tests overlap and range detection on raw entries.
func TestBlocks(t *testing.T) {
	entry := func(id string, start, size int) alloc.Entry {
		return alloc.Entry{ID: id, Block: alloc.Block{Start: start, Size: size}}
	}

	require.NoError(t, Blocks(16, []alloc.Entry{entry("A", 0, 4), entry("B", 4, 4)}))

	err := Blocks(16, []alloc.Entry{entry("A", 0, 5), entry("B", 4, 4)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "overlaps")

	err = Blocks(16, []alloc.Entry{entry("A", 14, 4)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "outside region")
}
