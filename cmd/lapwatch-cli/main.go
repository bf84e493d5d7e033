package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/2tvenom/cbor"
	"github.com/dustin/go-humanize"
	"github.com/lapwatch/lapwatch-go"
	"github.com/lapwatch/lapwatch-go/logger"
	"github.com/lapwatch/lapwatch-go/seq"
	"github.com/lapwatch/lapwatch-go/timesource"
	"github.com/mkideal/cli"
	clix "github.com/mkideal/cli/ext"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
)

type opts struct {
	cli.Helper
	*zap.Logger

	Debug      bool          `cli:"d, debug" usage:"Debug output"`
	Source     string        `cli:"s, source" name:"kind" usage:"Time source [perf_counter|monotonic|process|wall]" dft:"perf_counter"`
	Runs       int           `cli:"n, runs" name:"count" usage:"Number of timed runs" dft:"10"`
	Warmup     int           `cli:"w, warmup" name:"count" usage:"Untimed warmup runs"`
	Budget     clix.Duration `cli:"t, time-limit" name:"duration" usage:"Stop before this total time budget would be exceeded"`
	Cutoff     string        `cli:"c, cutoff" name:"policy" usage:"Budget cutoff policy [overtime|lastlap|meanlap|medianlap|maxlap|ewmalap]" dft:"meanlap"`
	ChunkSize  int           `cli:"chunk" name:"size" usage:"Runs per split" dft:"1"`
	Verbose    bool          `cli:"v, verbose" usage:"Report every split"`
	Format     string        `cli:"f, format" name:"format" usage:"Result format [table|json|cbor]" dft:"table"`
	Output     string        `cli:"o, output" name:"path" usage:"Write results to a file instead of STDOUT"`
	ShowOutput bool          `cli:"show-output" usage:"Pass command output through"`
}

func (opts *opts) configureLogging() (err error) {
	if opts.Debug {
		logger.SetLevel(logger.LevelDebug)

		opts.Logger, err = zap.NewDevelopment()
	} else {
		logger.SetLevel(logger.LevelInfo)

		opts.Logger, err = zap.NewProduction()
	}

	if err != nil {
		return
	}

	lwLogger := opts.Logger.Named("lapwatch").WithOptions(zap.AddCaller(), zap.AddCallerSkip(2))

	logger.DisablePrefix()
	logger.SetFunc(logger.LevelDebug, func(format string, args ...interface{}) {
		lwLogger.Debug(fmt.Sprintf(format, args...))
	})
	logger.SetFunc(logger.LevelInfo, func(format string, args ...interface{}) {
		lwLogger.Info(fmt.Sprintf(format, args...))
	})
	logger.SetFunc(logger.LevelWarn, func(format string, args ...interface{}) {
		lwLogger.Warn(fmt.Sprintf(format, args...))
	})
	logger.SetFunc(logger.LevelError, func(format string, args ...interface{}) {
		lwLogger.Error(fmt.Sprintf(format, args...))
	})

	return
}

func (opts *opts) newStopwatch() (*lapwatch.Stopwatch, error) {
	kind, err := timesource.ParseKind(opts.Source)
	if err != nil {
		return nil, err
	}

	// Split reporting goes to STDERR so exported results stay parseable.
	return lapwatch.New(
		lapwatch.StartPaused(),
		lapwatch.WithTimeSource(kind),
		lapwatch.WithWriter(os.Stderr),
	)
}

func parseCutoff(s string) (lapwatch.CutoffPolicy, error) {
	switch strings.ToLower(s) {
	case "", "overtime":
		return lapwatch.CutoffOvertime, nil
	case "lastlap":
		return lapwatch.CutoffLastLap, nil
	case "meanlap":
		return lapwatch.CutoffMeanLap, nil
	case "medianlap":
		return lapwatch.CutoffMedianLap, nil
	case "maxlap":
		return lapwatch.CutoffMaxLap, nil
	case "ewmalap":
		return lapwatch.CutoffEwmaLap, nil
	default:
		return 0, fmt.Errorf("unknown cutoff policy: %s", s)
	}
}

func (opts *opts) execute(ctx context.Context, command []string) error {
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)

	if opts.ShowOutput {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	return cmd.Run()
}

func (opts *opts) run(ctx context.Context, sw *lapwatch.Stopwatch, command []string) (runs int, err error) {
	for i := 0; i < opts.Warmup; i++ {
		if err = opts.execute(ctx, command); err != nil {
			return
		}
	}

	var loopOpts []lapwatch.LoopOption

	if opts.ChunkSize > 1 {
		loopOpts = append(loopOpts, lapwatch.ChunkSize(opts.ChunkSize))
	}

	if opts.Verbose {
		loopOpts = append(loopOpts, lapwatch.Verbose())
	}

	src := seq.Take(seq.Ints(), opts.Runs)

	var loop *lapwatch.Loop

	if opts.Budget.Duration > 0 {
		var policy lapwatch.CutoffPolicy

		if policy, err = parseCutoff(opts.Cutoff); err != nil {
			return
		}

		loop, err = sw.TimedLoop(src, opts.Budget.Duration, policy, loopOpts...)
	} else {
		loop, err = sw.LoopTimer(src, loopOpts...)
	}

	if err != nil {
		return
	}

	for {
		_, ok := loop.Next()

		if !ok {
			return
		}

		if err = opts.execute(ctx, command); err != nil {
			loop.Break()

			return
		}

		runs++
	}
}

type lapRecord struct {
	Lap     int     `json:"lap"`
	Seconds float64 `json:"seconds"`
	HMS     string  `json:"hms"`
}

func lapRecords(sw *lapwatch.Stopwatch) []lapRecord {
	laps := sw.Laps()
	records := make([]lapRecord, len(laps))

	for i, rep := range laps {
		records[i] = lapRecord{
			Lap:     i + 1,
			Seconds: rep.Seconds(),
			HMS:     rep.String(),
		}
	}

	return records
}

func (opts *opts) export(sw *lapwatch.Stopwatch, runs int) (err error) {
	var out io.Writer = os.Stdout

	if opts.Output != "" {
		var f *os.File

		if f, err = os.Create(opts.Output); err != nil {
			return
		}

		defer f.Close()

		out = f
	}

	switch strings.ToLower(opts.Format) {
	case "", "table":
		return opts.printTable(out, sw, runs)

	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")

		return encoder.Encode(lapRecords(sw))

	case "cbor":
		var buf bytes.Buffer

		encoder := cbor.NewEncoder(&buf)

		if _, err = encoder.Marshal(lapRecords(sw)); err != nil {
			return
		}

		_, err = out.Write(buf.Bytes())

		return

	default:
		return fmt.Errorf("unknown result format: %s", opts.Format)
	}
}

func (opts *opts) printTable(out io.Writer, sw *lapwatch.Stopwatch, runs int) error {
	table := tablewriter.NewWriter(out)
	table.Header("Metric", "Value")

	table.Append([]string{"Runs", humanize.Comma(int64(runs))})
	table.Append([]string{"Laps", humanize.Comma(int64(sw.LapCount()))})
	table.Append([]string{"Total", sw.Check().String()})

	if sw.LapCount() > 0 {
		table.Append([]string{"Range", fmt.Sprintf("%s - %s", sw.MinLap(), sw.MaxLap())})
		table.Append([]string{"Median", sw.MedianLap().String()})
		table.Append([]string{"Mean", sw.MeanLap().String()})
		table.Append([]string{"EWMA", sw.EwmaLap().String()})

		if p90, err := sw.PercentileLap(90); err == nil {
			table.Append([]string{"P90", p90.String()})
		}

		if stdev, err := sw.StdevLap(); err == nil {
			table.Append([]string{"Stdev", stdev.String()})
		}
	}

	table.Render()

	return nil
}

func main() {
	cli.Run(new(opts), func(cmdline *cli.Context) (err error) {
		opts := cmdline.Argv().(*opts)

		if err = opts.configureLogging(); err != nil {
			return
		}

		defer opts.Logger.Sync()

		args := cmdline.Args()

		if len(args) == 0 {
			err = fmt.Errorf("required arguments are missing: '%s'", "command")
			return
		}

		if opts.Runs < 1 {
			err = fmt.Errorf("invalid run count: %d", opts.Runs)
			return
		}

		opts.Logger.Debug("parsed options", zap.Reflect("opts", opts))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var sw *lapwatch.Stopwatch

		if sw, err = opts.newStopwatch(); err != nil {
			opts.Logger.Error("fail to create stopwatch", zap.Error(err))

			return
		}

		var runs int

		if runs, err = opts.run(ctx, sw, args); err != nil {
			opts.Logger.Error("benchmark aborted", zap.Error(err))

			return
		}

		return opts.export(sw, runs)
	}, "Benchmark a command, timing every run as a lap.")
}
