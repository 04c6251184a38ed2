package alloc

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/joshuapare/memfit/mem/region"
)

// EventKind classifies an engine outcome reported to an Observer.
type EventKind uint8

const (
	EventPlaced EventKind = iota + 1
	EventNoSpace
	EventReleased
)

func (k EventKind) String() string {
	switch k {
	case EventPlaced:
		return "allocated"
	case EventNoSpace:
		return "nospace"
	case EventReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Event describes one committed outcome. Offset is -1 for EventNoSpace.
type Event struct {
	Kind      EventKind
	Strategy  Kind
	ID        string
	Size      int
	Offset    int
	FromIndex bool
	Used      int // occupied units after the outcome
}

// Observer receives every Place and Release outcome.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(ev Event) { f(ev) }

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithObserver registers an observer. May be given more than once.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// Engine owns one region, allocation table and Quick Fit index and places
// requests with a single strategy.
type Engine struct {
	region   *region.Region
	table    *Table
	index    *QuickFitIndex
	strategy Strategy

	stats     Stats
	log       *slog.Logger
	observers []Observer
}

// NewEngine creates an engine over a fresh region of capacity units.
func NewEngine(capacity int, s Strategy, opts ...Option) (*Engine, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil strategy", ErrUnknownKind)
	}
	r, err := region.New(capacity)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		region:   r,
		table:    newTable(),
		index:    newQuickFitIndex(),
		strategy: s,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Reset frees every unit, drops all allocations and index entries, clears
// strategy state and zeroes stats.
func (e *Engine) Reset() {
	e.region.Reset()
	e.table.reset()
	e.index.reset()
	e.strategy.Reset()
	e.stats = Stats{}
}

// Place finds room for req with the engine's strategy and commits it. It
// returns the start offset, or an error wrapping ErrNoSpace when nothing fits.
// Any other error means the region and table disagree and the engine should
// not be used further.
func (e *Engine) Place(req Request) (int, error) {
	e.stats.PlaceCalls++

	if req.Size <= 0 {
		return -1, fmt.Errorf("%w: %s requested %d", ErrBadSize, req.ID, req.Size)
	}
	if _, live := e.table.Lookup(req.ID); live {
		return -1, fmt.Errorf("%w: %s", ErrAlreadyPlaced, req.ID)
	}

	var (
		choice Choice
		ok     bool
	)
	if req.Size <= e.region.Capacity() {
		choice, ok = e.strategy.Find(e.region, e.index, req.Size)
	}

	if choice.Stale > 0 {
		e.stats.QuickStale += choice.Stale
		e.log.Debug("discarded stale quick fit entries",
			"process", req.ID, "size", req.Size, "stale", choice.Stale)
	}

	if !ok {
		e.stats.NoSpace++
		e.log.Debug("no space",
			"strategy", e.strategy.Kind().String(), "process", req.ID, "size", req.Size,
			"free", e.region.FreeUnits())
		e.notify(Event{
			Kind:     EventNoSpace,
			Strategy: e.strategy.Kind(),
			ID:       req.ID,
			Size:     req.Size,
			Offset:   -1,
			Used:     e.region.Used(),
		})
		return -1, fmt.Errorf("%w: %s needs %d units", ErrNoSpace, req.ID, req.Size)
	}

	if err := e.region.Occupy(choice.Offset, req.Size, req.ID); err != nil {
		return -1, fmt.Errorf("alloc: commit %s at %d: %w", req.ID, choice.Offset, err)
	}
	e.table.insert(req.ID, Block{Start: choice.Offset, Size: req.Size})

	if obs, ok := e.strategy.(placementObserver); ok {
		obs.placed(choice.Offset, req.Size)
	}

	e.stats.Placed++
	e.stats.UnitsPlaced += req.Size
	if e.strategy.Kind() == QuickFit {
		if choice.FromIndex {
			e.stats.QuickHits++
		} else {
			e.stats.QuickFallbacks++
		}
	}

	e.notify(Event{
		Kind:      EventPlaced,
		Strategy:  e.strategy.Kind(),
		ID:        req.ID,
		Size:      req.Size,
		Offset:    choice.Offset,
		FromIndex: choice.FromIndex,
		Used:      e.region.Used(),
	})
	return choice.Offset, nil
}

// Release frees the block held by id and queues its offset in the Quick Fit
// index. It returns false with a nil error when id holds nothing.
func (e *Engine) Release(id string) (bool, error) {
	e.stats.ReleaseCalls++

	b, ok := e.table.Lookup(id)
	if !ok {
		e.stats.ReleaseMisses++
		return false, nil
	}

	if err := e.region.Free(b.Start, b.Size); err != nil {
		return false, fmt.Errorf("alloc: release %s [%d,%d): %w", id, b.Start, b.End(), err)
	}
	e.index.push(b.Size, b.Start)
	e.table.remove(id)

	e.stats.Released++
	e.stats.UnitsFreed += b.Size

	e.notify(Event{
		Kind:     EventReleased,
		Strategy: e.strategy.Kind(),
		ID:       id,
		Size:     b.Size,
		Offset:   b.Start,
		Used:     e.region.Used(),
	})
	return true, nil
}

// Lookup returns the live block owned by id.
func (e *Engine) Lookup(id string) (Block, bool) { return e.table.Lookup(id) }

// Snapshot returns the state of every unit. It is a copy and carries no
// information about mutation order.
func (e *Engine) Snapshot() []region.State { return e.region.Snapshot() }

// Region exposes the engine's region for read-only inspection.
func (e *Engine) Region() *region.Region { return e.region }

// Table exposes the allocation table for read-only inspection.
func (e *Engine) Table() *Table { return e.table }

// Index exposes the Quick Fit index for read-only inspection.
func (e *Engine) Index() *QuickFitIndex { return e.index }

// Strategy returns the engine's placement strategy.
func (e *Engine) Strategy() Strategy { return e.strategy }

// Capacity returns the region capacity in units.
func (e *Engine) Capacity() int { return e.region.Capacity() }

// Stats returns the counters accumulated since the last Reset.
func (e *Engine) Stats() Stats { return e.stats }

func (e *Engine) notify(ev Event) {
	for _, o := range e.observers {
		o.Observe(ev)
	}
}
