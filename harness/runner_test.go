package harness

import (
	"errors"
	"math"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestMeasureOrderOfEffects(t *testing.T) {
	rec := &recorder{}
	prof := &scriptedProfiler{rec: rec}
	r := NewRunner(
		WithClock(newStepClock(time.Millisecond)),
		WithProfiler(prof),
		WithReclaim(func() { rec.add("gc") }),
		WithLogger(zaptest.NewLogger(t)),
	)

	_, err := r.Measure(Case{Name: "op", Op: OpFunc(func() error {
		rec.add("op")
		return nil
	})}, Config{MinSeconds: 0.002})
	require.NoError(t, err)
	assert.Equal(t, []string{"gc", "start", "op", "op", "stop", "gc"}, rec.events)
}

func TestMeasureDerivesRates(t *testing.T) {
	r := NewRunner(
		WithClock(newStepClock(10*time.Millisecond)),
		WithProfiler(&scriptedProfiler{
			before: AllocSnapshot{CurrentBytes: 100, AllocatedBytes: 1000, Mallocs: 10},
			after:  AllocSnapshot{CurrentBytes: 300, AllocatedBytes: 5000, Mallocs: 50},
		}),
		WithReclaim(func() {}),
	)

	res, err := r.Measure(Case{Name: "x", Group: "g", Bytes: 64, Op: OpFunc(noop)}, Config{MinSeconds: 0.035})
	require.NoError(t, err)
	assert.Equal(t, "x", res.Name)
	assert.Equal(t, "g", res.Group)
	assert.Equal(t, int64(4), res.Iterations)
	assert.InDelta(t, 0.04, res.ElapsedSeconds, 1e-9)
	assert.InDelta(t, 100.0, res.OpsPerSecond, 1e-6)
	assert.InDelta(t, 1e7, res.NanosPerOp, 1e-3)
	assert.Equal(t, uint64(200), res.AllocCurrentDeltaBytes)
	assert.Equal(t, uint64(4000), res.AllocatedDeltaBytes)
	assert.Equal(t, uint64(40), res.AllocsDelta)
	assert.True(t, res.AllocTracked)
	assert.InDelta(t, 1000.0, res.BytesPerOp(), 1e-9)
	assert.InDelta(t, 10.0, res.AllocsPerOp(), 1e-9)
	assert.Equal(t, int64(64), res.Bytes)
}

func TestMeasureClampsNegativeDeltas(t *testing.T) {
	r := NewRunner(
		WithClock(newStepClock(time.Millisecond)),
		WithProfiler(&scriptedProfiler{
			before: AllocSnapshot{CurrentBytes: 5000, AllocatedBytes: 900, Mallocs: 9},
			after:  AllocSnapshot{CurrentBytes: 1000, AllocatedBytes: 100, Mallocs: 1},
		}),
		WithReclaim(func() {}),
	)

	res, err := r.Measure(Case{Name: "frees", Op: OpFunc(noop)}, Config{MinSeconds: 0.001})
	require.NoError(t, err)
	assert.Zero(t, res.AllocCurrentDeltaBytes)
	assert.Zero(t, res.AllocatedDeltaBytes)
	assert.Zero(t, res.AllocsDelta)
}

var retained [][]byte

func TestMeasureWithRealProfilerWhenOperationFrees(t *testing.T) {
	retained = make([][]byte, 64)
	for i := range retained {
		retained[i] = make([]byte, 64<<10)
	}
	next := 0
	freeing := OpFunc(func() error {
		if next < len(retained) {
			retained[next] = nil
			next++
		}
		runtime.GC()
		return nil
	})

	res, err := NewRunner().Measure(Case{Name: "frees", Op: freeing}, Config{MinSeconds: 0.01})
	require.NoError(t, err)
	assert.True(t, res.AllocTracked)
	assert.GreaterOrEqual(t, res.Iterations, int64(1))
	// The live heap shrinks inside the window; the delta is clamped, not
	// wrapped around.
	assert.Less(t, res.AllocCurrentDeltaBytes, uint64(1<<20))
}

func TestMeasureCountsAllocations(t *testing.T) {
	var sink []byte
	res, err := NewRunner().Measure(Case{Name: "alloc", Op: OpFunc(func() error {
		sink = make([]byte, 4096)
		return nil
	})}, Config{MinSeconds: 0.01})
	require.NoError(t, err)
	_ = sink
	assert.GreaterOrEqual(t, res.BytesPerOp(), 4096.0)
	assert.GreaterOrEqual(t, res.AllocsPerOp(), 1.0)
}

func TestMeasureWithoutProfiler(t *testing.T) {
	r := NewRunner(WithProfiler(NopProfiler{}), WithReclaim(func() {}))
	res, err := r.Measure(Case{Name: "n", Op: OpFunc(noop)}, Config{MinSeconds: 0.001})
	require.NoError(t, err)
	assert.False(t, res.AllocTracked)
	assert.Zero(t, res.AllocatedDeltaBytes)
	assert.True(t, math.IsNaN(res.BytesPerOp()))
	assert.True(t, math.IsNaN(res.AllocsPerOp()))
	assert.False(t, math.IsNaN(res.OpsPerSecond))
}

func TestMeasurePropagatesOperationError(t *testing.T) {
	boom := errors.New("decode failed")
	prof := &scriptedProfiler{}
	r := NewRunner(WithProfiler(prof), WithReclaim(func() {}))

	_, err := r.Measure(Case{Name: "bad", Op: OpFunc(func() error { return boom })}, Config{MinSeconds: 1})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"bad"`)
	assert.Equal(t, 1, prof.starts)
	assert.Equal(t, 1, prof.stops)
}

func TestMeasureClosesWindowOnPanic(t *testing.T) {
	prof := &scriptedProfiler{}
	r := NewRunner(WithProfiler(prof), WithReclaim(func() {}))

	assert.PanicsWithValue(t, "kaboom", func() {
		_, _ = r.Measure(Case{Name: "p", Op: OpFunc(func() error { panic("kaboom") })}, Config{MinSeconds: 1})
	})
	assert.Equal(t, 1, prof.stops)
}

func TestRatesSentinels(t *testing.T) {
	ops, ns := Rates(0, 1.5)
	assert.True(t, math.IsNaN(ops))
	assert.True(t, math.IsNaN(ns))

	ops, ns = Rates(0, 0)
	assert.True(t, math.IsNaN(ops))
	assert.True(t, math.IsNaN(ns))

	ops, ns = Rates(10, 0)
	assert.True(t, math.IsNaN(ops))
	assert.Zero(t, ns)

	ops, ns = Rates(4, 2)
	assert.Equal(t, 2.0, ops)
	assert.Equal(t, 5e8, ns)
}

func TestRunAllEmpty(t *testing.T) {
	r := NewRunner(WithClock(forbiddenClock{t}), WithProfiler(forbiddenProfiler{t}), WithReclaim(func() {
		t.Fatalf("reclaim must not run")
	}))

	b, err := r.RunAll(nil, Config{MinSeconds: 1})
	require.NoError(t, err)
	assert.NotNil(t, b.Results)
	assert.Empty(t, b.Results)
	assert.Zero(t, b.TotalSeconds)
}

func TestRunAllPreservesOrder(t *testing.T) {
	lengths := map[string][]time.Duration{
		"increasing": {time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond},
		"decreasing": {3 * time.Millisecond, 2 * time.Millisecond, time.Millisecond},
	}
	for name, ds := range lengths {
		t.Run(name, func(t *testing.T) {
			cases := []Case{
				{Name: "A", Op: sleeper(ds[0])},
				{Name: "B", Op: sleeper(ds[1])},
				{Name: "C", Op: sleeper(ds[2])},
			}
			var observed []string
			r := NewRunner(WithObserver(func(res Result) { observed = append(observed, res.Name) }))

			b, err := r.RunAll(cases, Config{MinSeconds: 0.005})
			require.NoError(t, err)
			require.Len(t, b.Results, 3)
			names := []string{b.Results[0].Name, b.Results[1].Name, b.Results[2].Name}
			assert.Equal(t, []string{"A", "B", "C"}, names)
			assert.Equal(t, names, observed)

			var sum float64
			for _, res := range b.Results {
				sum += res.ElapsedSeconds
			}
			assert.GreaterOrEqual(t, b.TotalSeconds, sum)
		})
	}
}

func TestRunAllAbortsOnFailure(t *testing.T) {
	boom := errors.New("boom")
	laterRan := false
	cases := []Case{
		{Name: "ok", Op: OpFunc(noop)},
		{Name: "fails", Op: OpFunc(func() error { return boom })},
		{Name: "never", Op: OpFunc(func() error {
			laterRan = true
			return nil
		})},
	}

	b, err := NewRunner(WithReclaim(func() {})).RunAll(cases, Config{MinSeconds: 0.001})
	require.ErrorIs(t, err, boom)
	assert.False(t, laterRan)
	require.Len(t, b.Results, 1)
	assert.Equal(t, "ok", b.Results[0].Name)
}

func TestNoopRunsAreComparable(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}
	r := NewRunner()
	cfg := Config{MinSeconds: 0.2}

	first, err := r.Measure(Case{Name: "noop", Op: OpFunc(noop)}, cfg)
	require.NoError(t, err)
	second, err := r.Measure(Case{Name: "noop", Op: OpFunc(noop)}, cfg)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, first.Iterations, int64(1))
	assert.GreaterOrEqual(t, second.Iterations, int64(1))
	ratio := first.OpsPerSecond / second.OpsPerSecond
	assert.Greater(t, ratio, 0.1)
	assert.Less(t, ratio, 10.0)
}
