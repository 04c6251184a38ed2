package sim

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rs/xid"

	"github.com/joshuapare/memfit/internal/config"
	"github.com/joshuapare/memfit/internal/workload"
	"github.com/joshuapare/memfit/mem/alloc"
	"github.com/joshuapare/memfit/mem/region"
	"github.com/joshuapare/memfit/mem/verify"
)

// Action is what a step did.
type Action string

const (
	ActionAllocated Action = "allocated"
	ActionReleased  Action = "released"
	ActionNoSpace   Action = "nospace"
)

// Step is one recorded simulation step.
type Step struct {
	Run      string         `json:"run"`
	Strategy alloc.Kind     `json:"-"`
	Index    int            `json:"step"`
	Process  string         `json:"process"`
	Size     int            `json:"size"`
	Action   Action         `json:"action"`
	Offset   int            `json:"offset"` // -1 for nospace
	Memory   []region.State `json:"memory"`
}

// Result is the outcome of one strategy run.
type Result struct {
	RunID         string              `json:"run_id"`
	Strategy      alloc.Kind          `json:"-"`
	StrategyName  string              `json:"strategy"`
	Seed          int64               `json:"seed"`
	Steps         []Step              `json:"steps"`
	Stats         alloc.Stats         `json:"stats"`
	Fragmentation alloc.Fragmentation `json:"fragmentation"`
}

// StepSink receives every step as it happens. The CSV trace is one.
type StepSink interface {
	WriteStep(Step) error
}

// RunOption configures a Runner.
type RunOption func(*Runner)

// WithLogger sets the runner and engine logger.
func WithLogger(l *slog.Logger) RunOption {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithObserver forwards engine outcomes to o for every run.
func WithObserver(o alloc.Observer) RunOption {
	return func(r *Runner) { r.observers = append(r.observers, o) }
}

// WithSink sends every step to s.
func WithSink(s StepSink) RunOption {
	return func(r *Runner) { r.sinks = append(r.sinks, s) }
}

// Runner executes the configured strategies.
type Runner struct {
	cfg       *config.Config
	seed      int64
	log       *slog.Logger
	observers []alloc.Observer
	sinks     []StepSink
}

// NewRunner creates a runner for cfg. A zero seed is replaced by the clock
// once, so every strategy in this runner shares it.
func NewRunner(cfg *config.Config, opts ...RunOption) *Runner {
	r := &Runner{
		cfg:  cfg,
		seed: cfg.Seed,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if r.seed == 0 {
		r.seed = time.Now().UnixNano()
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Seed returns the seed every run uses.
func (r *Runner) Seed() int64 { return r.seed }

// RunAll runs every configured strategy in order. It stops at the first
// invariant breach.
func (r *Runner) RunAll() ([]Result, error) {
	results := make([]Result, 0, len(r.cfg.Strategies))
	for _, k := range r.cfg.Strategies {
		res, err := r.Run(k)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Run simulates a single strategy from an empty region.
func (r *Runner) Run(k alloc.Kind) (Result, error) {
	s := alloc.New(k)
	if s == nil {
		return Result{}, fmt.Errorf("%w: %v", alloc.ErrUnknownKind, k)
	}

	opts := []alloc.Option{alloc.WithLogger(r.log)}
	for _, o := range r.observers {
		opts = append(opts, alloc.WithObserver(o))
	}
	e, err := alloc.NewEngine(r.cfg.Capacity, s, opts...)
	if err != nil {
		return Result{}, err
	}
	e.Reset()

	res := Result{
		RunID:        xid.New().String(),
		Strategy:     k,
		StrategyName: k.String(),
		Seed:         r.seed,
		Steps:        make([]Step, 0, r.cfg.Steps),
	}
	log := r.log.With("run", res.RunID, "strategy", k.String())
	log.Info("simulation started", "capacity", r.cfg.Capacity, "steps", r.cfg.Steps, "seed", r.seed)

	picker := workload.NewPicker(r.cfg.Processes, r.seed)
	for i := 1; i <= r.cfg.Steps; i++ {
		p := picker.Next()
		step, err := r.step(e, p)
		if err != nil {
			log.Error("invariant breach", "step", i, "process", p.ID, "err", err)
			return res, fmt.Errorf("%s step %d: %w", k, i, err)
		}
		step.Run = res.RunID
		step.Strategy = k
		step.Index = i
		res.Steps = append(res.Steps, step)

		for _, sink := range r.sinks {
			if err := sink.WriteStep(step); err != nil {
				return res, err
			}
		}

		if r.cfg.Verify {
			if err := verify.AllInvariants(e); err != nil {
				log.Error("invariant breach", "step", i, "process", p.ID, "err", err)
				return res, fmt.Errorf("%s step %d: %w", k, i, err)
			}
		}
	}

	res.Stats = e.Stats()
	res.Fragmentation = e.Fragmentation()
	log.Info("simulation finished",
		"placed", res.Stats.Placed,
		"nospace", res.Stats.NoSpace,
		"released", res.Stats.Released,
		"largest_free_run", res.Fragmentation.LargestFreeRun)
	return res, nil
}

func (r *Runner) step(e *alloc.Engine, p workload.Process) (Step, error) {
	st := Step{Process: p.ID, Size: p.Size, Offset: -1}

	if b, live := e.Lookup(p.ID); live {
		if _, err := e.Release(p.ID); err != nil {
			return st, err
		}
		st.Action = ActionReleased
		st.Offset = b.Start
		st.Memory = e.Snapshot()
		return st, nil
	}

	off, err := e.Place(p.Request())
	switch {
	case errors.Is(err, alloc.ErrNoSpace):
		st.Action = ActionNoSpace
	case err != nil:
		return st, err
	default:
		st.Action = ActionAllocated
		st.Offset = off
	}
	st.Memory = e.Snapshot()
	return st, nil
}
