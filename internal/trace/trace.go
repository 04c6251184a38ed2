// Package trace records every simulation step to a CSV file.
package trace

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/joshuapare/memfit/internal/sim"
	"github.com/joshuapare/memfit/mem/alloc"
	"github.com/joshuapare/memfit/mem/region"
)

// Record is one line of the trace.
type Record struct {
	RunID    string
	Strategy alloc.Kind
	Step     int
	Process  string
	Size     int
	Action   string
	Offset   int
	Used     int
}

// CSVWriter buffers records and writes them to a CSV file.
type CSVWriter struct {
	path string
	out  io.WriteCloser

	mu         sync.Mutex
	records    []Record
	bufferSize int
	closed     bool
}

// NewCSVWriter creates a trace writer for path. An empty path picks
// "memsim_trace_<xid>.csv".
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{
		path:       path,
		bufferSize: 1000,
	}
}

// Path returns the file the writer writes to.
func (w *CSVWriter) Path() string { return w.path }

// Init creates the trace file and registers a flush at process exit. It
// refuses to overwrite an existing file.
func (w *CSVWriter) Init() error {
	if w.path == "" {
		w.path = "memsim_trace_" + xid.New().String() + ".csv"
	}

	if _, err := os.Stat(w.path); err == nil {
		return fmt.Errorf("trace: file %s already exists", w.path)
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	w.out = f

	if _, err := fmt.Fprintf(f, "RunID, Strategy, Step, Process, Size, Action, Offset, Used\n"); err != nil {
		return fmt.Errorf("trace: %w", err)
	}

	atexit.Register(func() { _ = w.Close() })
	return nil
}

// Write appends a record, flushing when the buffer is full.
func (w *CSVWriter) Write(r Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.records = append(w.records, r)
	if len(w.records) >= w.bufferSize {
		return w.flushLocked()
	}
	return nil
}

// WriteStep records a simulation step, so a CSVWriter can be passed to
// sim.WithSink.
func (w *CSVWriter) WriteStep(st sim.Step) error {
	used := 0
	for _, s := range st.Memory {
		if s == region.Occupied {
			used++
		}
	}
	return w.Write(Record{
		RunID:    st.Run,
		Strategy: st.Strategy,
		Step:     st.Index,
		Process:  st.Process,
		Size:     st.Size,
		Action:   string(st.Action),
		Offset:   st.Offset,
		Used:     used,
	})
}

// Flush writes buffered records to the file.
func (w *CSVWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushLocked()
}

func (w *CSVWriter) flushLocked() error {
	if w.out == nil || w.closed {
		return nil
	}
	for _, r := range w.records {
		_, err := fmt.Fprintf(w.out, "%s, %s, %d, %s, %d, %s, %d, %d\n",
			r.RunID,
			r.Strategy.Short(),
			r.Step,
			r.Process,
			r.Size,
			r.Action,
			r.Offset,
			r.Used,
		)
		if err != nil {
			return fmt.Errorf("trace: %w", err)
		}
	}
	w.records = nil
	return nil
}

// Close flushes and closes the file. Safe to call more than once.
func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.out == nil || w.closed {
		return nil
	}
	if err := w.flushLocked(); err != nil {
		return err
	}
	w.closed = true
	return w.out.Close()
}
