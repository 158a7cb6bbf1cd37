package harness

import (
	"sync"
	"testing"
	"time"
)

// stepClock advances by step on every reading.
type stepClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
	n    int
}

func newStepClock(step time.Duration) *stepClock {
	return &stepClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step: step}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	c.t = c.t.Add(c.step)
	return c.t
}

// forbiddenClock fails the test when read.
type forbiddenClock struct{ t *testing.T }

func (c forbiddenClock) Now() time.Time {
	c.t.Helper()
	c.t.Fatalf("clock must not be read")
	return time.Time{}
}

// recorder captures the order of runner side effects.
type recorder struct {
	events []string
}

func (r *recorder) add(e string) { r.events = append(r.events, e) }

// scriptedProfiler returns fixed snapshots and records calls.
type scriptedProfiler struct {
	rec    *recorder
	before AllocSnapshot
	after  AllocSnapshot
	starts int
	stops  int
}

func (p *scriptedProfiler) Start() AllocSnapshot {
	p.starts++
	if p.rec != nil {
		p.rec.add("start")
	}
	return p.before
}

func (p *scriptedProfiler) Stop() AllocSnapshot {
	p.stops++
	if p.rec != nil {
		p.rec.add("stop")
	}
	return p.after
}

func (p *scriptedProfiler) Available() bool { return true }

// forbiddenProfiler fails the test when used.
type forbiddenProfiler struct{ t *testing.T }

func (p forbiddenProfiler) Start() AllocSnapshot {
	p.t.Fatalf("profiler must not be started")
	return AllocSnapshot{}
}

func (p forbiddenProfiler) Stop() AllocSnapshot {
	p.t.Fatalf("profiler must not be stopped")
	return AllocSnapshot{}
}

func (p forbiddenProfiler) Available() bool { return true }

func noop() error { return nil }

func sleeper(d time.Duration) OpFunc {
	return func() error {
		time.Sleep(d)
		return nil
	}
}
