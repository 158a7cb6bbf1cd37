// Command codecbench measures encode and decode throughput of several
// serialization formats over one generated payload of user records.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/synadia-labs/codecbench/codecs"
	"github.com/synadia-labs/codecbench/harness"
	"github.com/synadia-labs/codecbench/logging"
	"github.com/synadia-labs/codecbench/payload"
	"github.com/synadia-labs/codecbench/promfile"
)

// CLI defines the codecbench command-line interface. Every flag can also be
// set from a JSON config file.
type CLI struct {
	Users int     `short:"u" help:"Number of users in the payload." default:"5000" env:"CODECBENCH_USERS"`
	Time  float64 `short:"t" help:"Minimum seconds to run each case." default:"1.0" env:"CODECBENCH_TIME"`

	SkipJSON    bool `name:"skip-json" help:"Skip the JSON codecs."`
	SkipTOON    bool `name:"skip-toon" help:"Skip the TOON codecs."`
	SkipProto   bool `name:"skip-proto" help:"Skip the protobuf codec."`
	SkipCBOR    bool `name:"skip-cbor" help:"Skip the CBOR codecs."`
	SkipMsgpack bool `name:"skip-msgpack" help:"Skip the MessagePack codecs."`

	LengthMarkers bool   `name:"length-markers" help:"Render TOON array lengths as [#N]."`
	Format        string `help:"Report format (table or gobench)." enum:"table,gobench" default:"table"`
	MetricsFile   string `name:"metrics-file" help:"Also write Prometheus textfile metrics to this path." type:"path"`

	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)." default:"info" env:"LOG_LEVEL"`
	LogFormat string `name:"log-format" help:"Log format (console or json)." enum:"console,json" default:"console" env:"LOG_FORMAT"`

	Config kong.ConfigFlag `help:"Load flags from a JSON file."`
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("codecbench"),
		kong.Description("Compare JSON, TOON, protobuf, CBOR and MessagePack encode/decode performance."),
		kong.Configuration(kong.JSON, "~/.codecbench.json", ".codecbench.json"),
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	log, err := logging.New(logging.Config{Level: cli.LogLevel, Format: cli.LogFormat})
	ctx.FatalIfErrorf(err)
	defer func() { _ = log.Sync() }()

	ctx.FatalIfErrorf(run(&cli, os.Stdout, log))
}

// skipFilter maps the skip flags onto codec groups.
func (cli *CLI) skipFilter() harness.GroupFilter {
	return harness.GroupFilter{
		codecs.GroupJSON:     cli.SkipJSON,
		codecs.GroupTOON:     cli.SkipTOON,
		codecs.GroupProtobuf: cli.SkipProto,
		codecs.GroupCBOR:     cli.SkipCBOR,
		codecs.GroupMsgpack:  cli.SkipMsgpack,
	}
}

func run(cli *CLI, out io.Writer, log *zap.Logger) error {
	cfg := harness.Config{MinSeconds: cli.Time, Skip: cli.skipFilter()}
	if err := cfg.Validate(); err != nil {
		return err
	}
	gobench := cli.Format == "gobench"

	printHeader(out, cli, gobench)

	p, err := payload.Generate(cli.Users)
	if err != nil {
		return err
	}
	catalogue, err := codecs.Catalogue(p, codecs.Options{LengthMarkers: cli.LengthMarkers})
	if err != nil {
		return err
	}

	suite := harness.NewSuite()
	notice := func(msg string) {
		log.Warn("decode fixture missing", zap.String("notice", msg))
		if !gobench {
			fmt.Fprintln(out, msg)
		}
	}
	if err := codecs.AddCases(suite, catalogue, cfg.Skip, notice); err != nil {
		return err
	}

	cases := suite.Select(cfg)
	if len(cases) == 0 {
		fmt.Fprintln(out, "No cases to run (all groups skipped).")
		return nil
	}

	opts := []harness.Option{harness.WithLogger(log)}
	if !gobench {
		opts = append(opts, harness.WithObserver(func(r harness.Result) {
			fmt.Fprintln(out, harness.Line(r))
		}))
	}
	runner := harness.NewRunner(opts...)

	log.Info("starting batch", zap.Int("cases", len(cases)), zap.Int("users", cli.Users), zap.Float64("minSeconds", cli.Time))
	batch, runErr := runner.RunAll(cases, cfg)
	log.Info("batch finished", zap.Int("measured", len(batch.Results)), zap.Float64("seconds", batch.TotalSeconds))

	if gobench {
		err = harness.RenderGoBench(out, batch)
	} else {
		fmt.Fprintln(out)
		err = harness.Render(out, batch)
	}
	if cli.MetricsFile != "" && len(batch.Results) > 0 {
		if merr := promfile.WriteTextfile(cli.MetricsFile, batch); merr != nil {
			err = errors.Join(err, fmt.Errorf("write metrics: %w", merr))
		}
	}
	return errors.Join(runErr, err)
}

func printHeader(w io.Writer, cli *CLI, gobench bool) {
	if gobench {
		fmt.Fprintf(w, "goos: %s\ngoarch: %s\npkg: codecbench\nusers: %d\nmin-seconds: %g\n",
			runtime.GOOS, runtime.GOARCH, cli.Users, cli.Time)
		return
	}
	fmt.Fprintf(w, "Running codec benchmarks with %d users, %.2fs minimum per case\n", cli.Users, cli.Time)
	fmt.Fprintf(w, "CPUs: %d, GOMAXPROCS: %d, %s\n\n", runtime.NumCPU(), runtime.GOMAXPROCS(0), runtime.Version())
}
