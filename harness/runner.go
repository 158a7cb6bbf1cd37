package harness

import (
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Runner measures cases. It is not safe for concurrent use; measurements
// must not overlap or their allocation windows would mix.
type Runner struct {
	clock    Clock
	profiler AllocProfiler
	reclaim  func()
	observe  func(Result)
	log      *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock replaces the system clock.
func WithClock(c Clock) Option { return func(r *Runner) { r.clock = c } }

// WithProfiler replaces the runtime.MemStats profiler.
func WithProfiler(p AllocProfiler) Option { return func(r *Runner) { r.profiler = p } }

// WithReclaim replaces runtime.GC as the forced reclamation step.
func WithReclaim(fn func()) Option { return func(r *Runner) { r.reclaim = fn } }

// WithObserver registers fn to be called after each case of a batch.
func WithObserver(fn func(Result)) Option { return func(r *Runner) { r.observe = fn } }

// WithLogger sets the logger used for per-case debug records.
func WithLogger(l *zap.Logger) Option { return func(r *Runner) { r.log = l } }

// NewRunner returns a Runner using the system clock, runtime.MemStats and
// runtime.GC unless overridden.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		clock:    SystemClock{},
		profiler: MemStatsProfiler{},
		reclaim:  runtime.GC,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Measure runs one case. The order of effects is fixed: collect, start the
// capture window, loop, stop the window, collect again. An error returned
// by the operation aborts the measurement and is returned wrapped with the
// case name.
func (r *Runner) Measure(c Case, cfg Config) (Result, error) {
	r.reclaim()
	iterations, elapsed, delta, err := r.capture(c.Op, cfg.MinSeconds)
	r.reclaim()
	if err != nil {
		return Result{}, fmt.Errorf("harness: case %q: %w", c.Name, err)
	}

	ops, ns := Rates(iterations, elapsed)
	res := Result{
		Name:           c.Name,
		Group:          c.Group,
		OpsPerSecond:   ops,
		NanosPerOp:     ns,
		Iterations:     iterations,
		ElapsedSeconds: elapsed,
		AllocTracked:   r.profiler.Available(),
		Bytes:          c.Bytes,
	}
	if res.AllocTracked {
		res.AllocCurrentDeltaBytes = delta.CurrentBytes
		res.AllocatedDeltaBytes = delta.AllocatedBytes
		res.AllocsDelta = delta.Mallocs
	}
	r.log.Debug("measured case",
		zap.String("case", c.Name),
		zap.Int64("iterations", iterations),
		zap.Duration("elapsed", time.Duration(elapsed*float64(time.Second))),
		zap.Uint64("allocatedDelta", res.AllocatedDeltaBytes))
	return res, nil
}

// capture runs the loop inside the allocation window. Stop is deferred so
// the window is closed on every exit path, a panicking operation included.
func (r *Runner) capture(op Operation, minSeconds float64) (iterations int64, elapsed float64, delta AllocDelta, err error) {
	before := r.profiler.Start()
	defer func() {
		delta = Delta(before, r.profiler.Stop())
	}()
	iterations, elapsed, err = Loop(r.clock, op, minSeconds)
	return iterations, elapsed, delta, err
}

// RunAll measures cases strictly in the given order and returns their
// results in that order with the wall-clock of the whole run. An empty input
// is valid and returns immediately without reading the clock. The first
// failing case aborts the batch.
func (r *Runner) RunAll(cases []Case, cfg Config) (Batch, error) {
	if len(cases) == 0 {
		return Batch{Results: []Result{}}, nil
	}
	results := make([]Result, 0, len(cases))
	start := r.clock.Now()
	for _, c := range cases {
		res, err := r.Measure(c, cfg)
		if err != nil {
			return Batch{Results: results, TotalSeconds: Elapsed(start, r.clock.Now())}, err
		}
		results = append(results, res)
		if r.observe != nil {
			r.observe(res)
		}
	}
	return Batch{Results: results, TotalSeconds: Elapsed(start, r.clock.Now())}, nil
}
