package sim

import (
	"fmt"
	"io"
	"strings"

	"github.com/joshuapare/memfit/mem/region"
)

// FormatMemory renders a snapshot as "[1, 1, 0, ...]".
func FormatMemory(mem []region.State) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, s := range mem {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(s.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Line renders one step as a console line.
func (s Step) Line() string {
	switch s.Action {
	case ActionAllocated:
		return fmt.Sprintf("Allocated: %s at block %d | Memory: %s", s.Process, s.Offset, FormatMemory(s.Memory))
	case ActionReleased:
		return fmt.Sprintf("Released: %s | Memory: %s", s.Process, FormatMemory(s.Memory))
	default:
		return fmt.Sprintf("Error: no space for %s | Memory: %s", s.Process, FormatMemory(s.Memory))
	}
}

// WriteText prints every run in console form, one header per strategy,
// followed by a one-line summary.
func WriteText(w io.Writer, results []Result) error {
	for _, res := range results {
		if _, err := fmt.Fprintf(w, "\nSimulation: %s\n", res.StrategyName); err != nil {
			return err
		}
		for _, st := range res.Steps {
			if _, err := fmt.Fprintln(w, st.Line()); err != nil {
				return err
			}
		}
		f := res.Fragmentation
		_, err := fmt.Fprintf(w,
			"Summary: placed=%d nospace=%d released=%d used=%d free=%d largest_free_run=%d fragmentation=%.2f\n",
			res.Stats.Placed, res.Stats.NoSpace, res.Stats.Released,
			f.UsedUnits, f.FreeUnits, f.LargestFreeRun, f.External)
		if err != nil {
			return err
		}
	}
	return nil
}
