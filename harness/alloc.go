package harness

import "runtime"

// AllocSnapshot is a point-in-time reading of the heap counters.
type AllocSnapshot struct {
	// CurrentBytes is the live heap (bytes of allocated, not yet freed objects).
	CurrentBytes uint64
	// AllocatedBytes is the cumulative count of bytes allocated by the
	// process (MemStats.TotalAlloc). Its growth across a window is the total
	// allocated inside it, not a high-water mark of the heap.
	AllocatedBytes uint64
	// Mallocs is the cumulative count of heap objects allocated.
	Mallocs uint64
}

// AllocProfiler brackets a capture window. Start returns the baseline and
// Stop the reading at the end of the window.
type AllocProfiler interface {
	Start() AllocSnapshot
	Stop() AllocSnapshot
	// Available reports whether the snapshots carry real numbers.
	Available() bool
}

// MemStatsProfiler reads runtime.MemStats at both ends of the window.
type MemStatsProfiler struct{}

func (MemStatsProfiler) read() AllocSnapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return AllocSnapshot{
		CurrentBytes:   ms.HeapAlloc,
		AllocatedBytes: ms.TotalAlloc,
		Mallocs:        ms.Mallocs,
	}
}

// Start implements AllocProfiler.
func (p MemStatsProfiler) Start() AllocSnapshot { return p.read() }

// Stop implements AllocProfiler.
func (p MemStatsProfiler) Stop() AllocSnapshot { return p.read() }

// Available implements AllocProfiler.
func (MemStatsProfiler) Available() bool { return true }

// NopProfiler stands in when allocation tracking is unavailable. Results
// measured with it report AllocTracked == false.
type NopProfiler struct{}

// Start implements AllocProfiler.
func (NopProfiler) Start() AllocSnapshot { return AllocSnapshot{} }

// Stop implements AllocProfiler.
func (NopProfiler) Stop() AllocSnapshot { return AllocSnapshot{} }

// Available implements AllocProfiler.
func (NopProfiler) Available() bool { return false }

// AllocDelta is the clamped difference between two snapshots.
type AllocDelta struct {
	CurrentBytes   uint64
	AllocatedBytes uint64
	Mallocs        uint64
}

// Delta returns after-before for every counter, clamped at zero. Background
// reclamation between the two readings can shrink the live heap; that is
// never reported as a negative cost.
func Delta(before, after AllocSnapshot) AllocDelta {
	return AllocDelta{
		CurrentBytes:   clampSub(after.CurrentBytes, before.CurrentBytes),
		AllocatedBytes: clampSub(after.AllocatedBytes, before.AllocatedBytes),
		Mallocs:        clampSub(after.Mallocs, before.Mallocs),
	}
}

func clampSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}
