package harness

import "math"

// Result is the measurement of one case. It is created once by the Runner
// and never modified afterwards.
type Result struct {
	Name  string
	Group string

	// OpsPerSecond is Iterations/ElapsedSeconds, or NaN when no time elapsed.
	OpsPerSecond float64
	// NanosPerOp is 1e9*ElapsedSeconds/Iterations, or NaN when nothing ran.
	NanosPerOp float64

	Iterations     int64
	ElapsedSeconds float64

	// Allocation deltas over the capture window, clamped at zero.
	// AllocCurrentDeltaBytes is the growth of the live heap (retained);
	// AllocatedDeltaBytes is everything allocated in the window, freed or not.
	AllocCurrentDeltaBytes uint64
	AllocatedDeltaBytes    uint64
	AllocsDelta            uint64
	// AllocTracked is false when the profiler could not observe the heap;
	// the allocation fields are then zero and carry no information.
	AllocTracked bool

	// Bytes is the payload size processed per invocation, 0 if unknown.
	Bytes int64
}

// Rates derives ops/sec and ns/op from a loop measurement. Undefined ratios
// are reported as NaN instead of dividing by zero; a measurement without a
// single completed iteration has neither.
func Rates(iterations int64, elapsedSeconds float64) (opsPerSecond, nanosPerOp float64) {
	opsPerSecond, nanosPerOp = math.NaN(), math.NaN()
	if iterations <= 0 {
		return opsPerSecond, nanosPerOp
	}
	if elapsedSeconds > 0 {
		opsPerSecond = float64(iterations) / elapsedSeconds
	}
	nanosPerOp = 1e9 * elapsedSeconds / float64(iterations)
	return opsPerSecond, nanosPerOp
}

// BytesPerOp is the allocated bytes per invocation (the testing.B B/op).
func (r Result) BytesPerOp() float64 {
	if !r.AllocTracked || r.Iterations <= 0 {
		return math.NaN()
	}
	return float64(r.AllocatedDeltaBytes) / float64(r.Iterations)
}

// AllocsPerOp is the heap objects allocated per invocation.
func (r Result) AllocsPerOp() float64 {
	if !r.AllocTracked || r.Iterations <= 0 {
		return math.NaN()
	}
	return float64(r.AllocsDelta) / float64(r.Iterations)
}

// MBPerSecond is the payload throughput in MiB/s.
func (r Result) MBPerSecond() float64 {
	if r.Bytes <= 0 || math.IsNaN(r.NanosPerOp) || r.NanosPerOp <= 0 {
		return math.NaN()
	}
	return float64(r.Bytes) * (1e9 / r.NanosPerOp) / (1024 * 1024)
}

// Batch is the outcome of RunAll: results in registration order and the
// wall-clock of the whole run, inter-case overhead included.
type Batch struct {
	Results      []Result
	TotalSeconds float64
}
