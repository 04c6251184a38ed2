package alloc

import (
	"cmp"
	"slices"
)

// Table maps live process ids to their blocks. At most one block exists per id.
type Table struct {
	blocks map[string]Block
}

func newTable() *Table {
	return &Table{blocks: make(map[string]Block)}
}

// Lookup returns the block owned by id.
func (t *Table) Lookup(id string) (Block, bool) {
	b, ok := t.blocks[id]
	return b, ok
}

// Len returns the number of live allocations.
func (t *Table) Len() int { return len(t.blocks) }

// UsedUnits returns the sum of sizes over all live allocations.
func (t *Table) UsedUnits() int {
	total := 0
	for _, b := range t.blocks {
		total += b.Size
	}
	return total
}

// Entry pairs a process id with its block.
type Entry struct {
	ID string
	Block
}

// Entries returns every live allocation ordered by start offset.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.blocks))
	for id, b := range t.blocks {
		out = append(out, Entry{ID: id, Block: b})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return out
}

func (t *Table) insert(id string, b Block) { t.blocks[id] = b }

func (t *Table) remove(id string) { delete(t.blocks, id) }

func (t *Table) reset() { clear(t.blocks) }
