// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"protannot/internal/annotate"
	"protannot/internal/cli"
	"protannot/internal/cmdutil"
	"protannot/internal/config"
	"protannot/internal/metric"
	"protannot/internal/pipeline"
	"protannot/internal/predictor"
	"protannot/internal/uniprot"
	"protannot/internal/version"
	"protannot/internal/writers"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("protannot")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		_, _ = cli.ParseArgs(fs, []string{"-h"})
		fs.SetOutput(outw)
		fs.Usage()
		return flush(outw, stderr, ExitOK)
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		fs.SetOutput(outw)
		if errors.Is(err, flag.ErrHelp) {
			fs.Usage()
			return flush(outw, stderr, ExitOK)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.Usage()
		return flush(outw, stderr, ExitUsage)
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "protannot version %s\n", version.Version)
		return flush(outw, stderr, ExitOK)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return ExitUsage
	}
	opts.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return ExitUsage
	}
	if cfg.Predictor.Table != "" && opts.IsSet("predictor-dir") {
		cmdutil.Warnf(stderr, opts.Quiet, "--predictions given; --predictor-dir %s is ignored", cfg.Predictor.Dir)
	}

	level, err := cmdutil.ParseLevel(cfg.Log.Level)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return ExitUsage
	}
	log := cmdutil.NewLogger(stderr, level, opts.Quiet, opts.Verbose)
	reg := metric.NewRegistry()

	code := run(parent, cfg, opts.Input, log, reg.Metrics, outw, stderr, opts.Quiet)

	if opts.MetricsFile != "" {
		if err := reg.WriteFile(opts.MetricsFile); err != nil {
			cmdutil.Warnf(stderr, opts.Quiet, "metrics file %s: %v", opts.MetricsFile, err)
		}
	}
	return flush(outw, stderr, code)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// run executes one annotation pass and maps its outcome to an exit code.
func run(ctx context.Context, cfg config.Config, input string, log *slog.Logger, m *metric.Metrics, outw, stderr io.Writer, quiet bool) int {
	ucfg := cfg.UniProt.ClientConfig()
	if ucfg.UserAgent == "" {
		ucfg.UserAgent = "protannot/" + version.Version
	}
	policy, _ := annotate.ParseMalformedPolicy(cfg.Lookup.Malformed)

	pcfg := pipeline.Config{
		Extractor: &annotate.Extractor{
			Lookup:    uniprot.New(ucfg, nil),
			Workers:   cfg.Lookup.Workers,
			Timeout:   cfg.Lookup.Timeout,
			Malformed: policy,
			Logger:    log,
			Observer:  m,
		},
		Predictor:    newPredictor(cfg.Predictor, log, stderr, quiet),
		ResidualPath: cfg.Predictor.Residual,
		Logger:       log,
		Observer:     m,
	}

	res, err := pipeline.Run(ctx, pcfg, input)
	if err != nil {
		return fail(ctx, log, err)
	}

	start := time.Now()
	if err := writers.WriteFile(cfg.Output.Path, cfg.Output.Format, res.Rows); err != nil {
		return fail(ctx, log, annotate.WrapStage(annotate.StageWrite, "", err))
	}
	m.ObserveStage(annotate.StageWrite, time.Since(start))

	counts := annotate.CountBySource(res.Rows)
	log.Info("annotation written",
		"path", cfg.Output.Path,
		"rows", len(res.Rows),
		"curated", counts[annotate.SourceCurated],
		"predicted", counts[annotate.SourcePredicted],
		"unknown", counts[annotate.SourceUnknown],
	)

	if err := writers.WritePreview(outw, cfg.Output.Path, res.Rows, cfg.Output.Preview); err != nil && !writers.IsBrokenPipe(err) {
		log.Error("preview", "error", err)
		return ExitRuntime
	}
	return ExitOK
}

func newPredictor(p config.Predictor, log *slog.Logger, stderr io.Writer, quiet bool) predictor.Predictor {
	if p.Table != "" {
		return predictor.StaticTable(p.Table)
	}
	r := &predictor.Runner{
		Python:   p.Python,
		Dir:      p.Dir,
		Script:   p.Script,
		Ontology: p.Ontology,
		Prefix:   p.Prefix,
		Args:     p.Args,
		Logger:   log,
	}
	if !quiet {
		r.Stdout = stderr
	}
	return r
}

// fail logs err and classifies it: malformed input is a usage error,
// cancellation is 130, everything else is a runtime failure.
func fail(ctx context.Context, log *slog.Logger, err error) int {
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		log.Warn("canceled", "error", err)
		return ExitCanceled
	}
	log.Error("run failed", "error", err)
	if errors.Is(err, annotate.ErrMalformedIdentifier) {
		return ExitUsage
	}
	return ExitRuntime
}

// flush writes buffered stdout; a closed downstream pipe is not an error.
func flush(outw *bufio.Writer, stderr io.Writer, code int) int {
	if err := outw.Flush(); writers.IsBrokenPipe(err) {
		return code
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitRuntime
	}
	return code
}
