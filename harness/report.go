package harness

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

const notAvailable = "n/a"

// Line formats r as a single progress line.
func Line(r Result) string {
	return fmt.Sprintf("%-28s elapsed(ms): %6.0f  ops/sec: %12s  ns/op: %14s",
		r.Name, r.ElapsedSeconds*1000, fmtFloat(r.OpsPerSecond, 2), fmtCount(r.NanosPerOp))
}

// Render writes the summary table of b followed by the total wall-clock.
func Render(w io.Writer, b Batch) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Case\tGroup\tIterations\tElapsed (ms)\tops/sec\tns/op\tMB/s\tB/op\tallocs/op\tAllocated\tRetained")
	for _, r := range b.Results {
		allocated, retained := notAvailable, notAvailable
		if r.AllocTracked {
			allocated = humanize.IBytes(r.AllocatedDeltaBytes)
			retained = humanize.IBytes(r.AllocCurrentDeltaBytes)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.0f\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Name,
			orDash(r.Group),
			r.Iterations,
			r.ElapsedSeconds*1000,
			fmtFloat(r.OpsPerSecond, 2),
			fmtCount(r.NanosPerOp),
			fmtFloat(r.MBPerSecond(), 2),
			fmtCount(r.BytesPerOp()),
			fmtFloat(r.AllocsPerOp(), 2),
			allocated,
			retained,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	total := b.TotalSeconds * 1000
	_, err := fmt.Fprintf(w, "\nTotal wall-clock: %.0f ms (%.3f s) for %d cases\n", total, b.TotalSeconds, len(b.Results))
	return err
}

// RenderGoBench writes b in the text format of `go test -bench`, one line per
// result, so that benchstat and similar tools can read it.
func RenderGoBench(w io.Writer, b Batch) error {
	for _, r := range b.Results {
		if r.Iterations <= 0 || math.IsNaN(r.NanosPerOp) {
			continue
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Benchmark%s\t%d\t%.2f ns/op", benchName(r.Name), r.Iterations, r.NanosPerOp)
		if mbs := r.MBPerSecond(); !math.IsNaN(mbs) {
			fmt.Fprintf(&sb, "\t%.2f MB/s", mbs)
		}
		if r.AllocTracked {
			fmt.Fprintf(&sb, "\t%d B/op\t%d allocs/op",
				r.AllocatedDeltaBytes/uint64(r.Iterations), r.AllocsDelta/uint64(r.Iterations))
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// benchName turns a case name into a benchmark name: the first letter is
// upper-cased and whitespace becomes underscores.
func benchName(name string) string {
	name = strings.Join(strings.Fields(name), "_")
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func fmtFloat(v float64, prec int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notAvailable
	}
	return humanize.CommafWithDigits(v, prec)
}

func fmtCount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notAvailable
	}
	return humanize.Comma(int64(math.Round(v)))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
