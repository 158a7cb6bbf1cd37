// Package promfile exports a finished batch in the Prometheus text format,
// for node_exporter's textfile collector or any scraper that reads files.
package promfile

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/synadia-labs/codecbench/harness"
)

const namespace = "codecbench"

var caseLabels = []string{"case", "group"}

// Registry returns a fresh registry holding the gauges of b. Undefined
// (NaN) values are left out.
func Registry(b harness.Batch) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	gauge := func(name, help string) *prometheus.GaugeVec {
		g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, caseLabels)
		reg.MustRegister(g)
		return g
	}
	ops := gauge("ops_per_second", "Operations per second of the case.")
	nsop := gauge("ns_per_op", "Nanoseconds per operation of the case.")
	iters := gauge("iterations", "Invocations completed while measuring the case.")
	bop := gauge("alloc_bytes_per_op", "Heap bytes allocated per operation.")
	aop := gauge("allocs_per_op", "Heap objects allocated per operation.")

	total := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "batch_seconds",
		Help:      "Wall-clock seconds of the whole batch.",
	})
	reg.MustRegister(total)
	total.Set(b.TotalSeconds)

	for _, r := range b.Results {
		set(ops, r, r.OpsPerSecond)
		set(nsop, r, r.NanosPerOp)
		set(iters, r, float64(r.Iterations))
		set(bop, r, r.BytesPerOp())
		set(aop, r, r.AllocsPerOp())
	}
	return reg
}

func set(g *prometheus.GaugeVec, r harness.Result, v float64) {
	if math.IsNaN(v) {
		return
	}
	g.WithLabelValues(r.Name, r.Group).Set(v)
}

// WriteTextfile atomically writes the metrics of b to path.
func WriteTextfile(path string, b harness.Batch) error {
	return prometheus.WriteToTextfile(path, Registry(b))
}
