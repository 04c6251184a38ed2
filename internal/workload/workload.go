// Package workload supplies the closed list of processes the simulation
// draws requests from.
package workload

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/joshuapare/memfit/mem/alloc"
)

// ErrBadProcess indicates a malformed process list entry.
var ErrBadProcess = errors.New("workload: bad process")

// Process is a named request for a fixed number of units.
type Process struct {
	ID   string `json:"id"`
	Size int    `json:"size"`
}

// Request converts p to an allocator request.
func (p Process) Request() alloc.Request {
	return alloc.Request{ID: p.ID, Size: p.Size}
}

// DefaultProcesses returns the ten-process list used by the reference
// simulation.
func DefaultProcesses() []Process {
	return []Process{
		{"P1", 5}, {"P2", 4}, {"P3", 2}, {"P4", 5}, {"P5", 8},
		{"P6", 3}, {"P7", 5}, {"P8", 8}, {"P9", 2}, {"P10", 6},
	}
}

// Parse reads a list such as "P1:5,P2:4". Ids must be unique and sizes
// positive.
func Parse(s string) ([]Process, error) {
	var out []Process
	seen := make(map[string]bool)

	for field := range strings.SplitSeq(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		id, sizeStr, ok := strings.Cut(field, ":")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("%w: %q (want ID:SIZE)", ErrBadProcess, field)
		}
		size, err := strconv.Atoi(strings.TrimSpace(sizeStr))
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("%w: %q: size must be a positive integer", ErrBadProcess, field)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrBadProcess, id)
		}
		seen[id] = true
		out = append(out, Process{ID: id, Size: size})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty list", ErrBadProcess)
	}
	return out, nil
}

// Format renders processes in the form accepted by Parse.
func Format(ps []Process) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.ID + ":" + strconv.Itoa(p.Size)
	}
	return strings.Join(parts, ",")
}

// Picker draws processes uniformly at random from a fixed list.
type Picker struct {
	procs []Process
	rng   *rand.Rand
}

// NewPicker returns a picker over procs seeded with seed.
func NewPicker(procs []Process, seed int64) *Picker {
	return &Picker{procs: procs, rng: rand.New(rand.NewSource(seed))}
}

// Next returns the next randomly chosen process.
func (p *Picker) Next() Process {
	return p.procs[p.rng.Intn(len(p.procs))]
}
