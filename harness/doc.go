// Package harness is the measurement core of codecbench.
//
// A Case names an opaque Operation. The Runner measures one case at a time:
// it forces a garbage collection, opens an allocation capture window, invokes
// the operation in a loop until a minimum wall-clock budget is consumed,
// closes the window, collects again and derives throughput and latency.
// RunAll measures an ordered batch of cases strictly in order and reports the
// total wall-clock of the batch.
//
// The package is single-threaded: cases never run concurrently and the loop
// never interrupts an operation mid-call.
package harness
