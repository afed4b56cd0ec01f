// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"protannot/internal/cliutil"
	"protannot/internal/config"
	"protannot/internal/version"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Input
	Input  string
	Config string

	// Curated lookups
	UniProtURL string
	Workers    int
	Timeout    time.Duration
	Malformed  string

	// Predictor
	Predictions  string
	PredictorDir string
	Ontology     string
	Residual     string

	// Output
	Out     string
	Format  string
	Preview int

	// Diagnostics
	LogLevel    string
	Quiet       bool
	Verbose     bool
	MetricsFile string

	Version bool

	set map[string]bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: protein function annotation (curated UniProt text, DeepFRI fallback)

Version: %s

Usage of %s:
  %s [flags] <input.fasta | ->

`, name, version.Version, name, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
// Flags may appear before or after the positional input.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool
	d := config.Default()

	fs.StringVar(&opt.Input, "input", "", "protein FASTA file ('-' = stdin, .gz ok) [*]")
	fs.StringVar(&opt.Input, "i", "", "protein FASTA file (shorthand)")
	fs.StringVar(&opt.Config, "config", "", "YAML config file")

	fs.StringVar(&opt.UniProtURL, "uniprot-url", d.UniProt.BaseURL, "UniProt REST base URL")
	fs.IntVar(&opt.Workers, "workers", d.Lookup.Workers, fmt.Sprintf("concurrent UniProt lookups [%d]", d.Lookup.Workers))
	fs.DurationVar(&opt.Timeout, "timeout", d.Lookup.Timeout, fmt.Sprintf("per-lookup timeout; expiry counts as not found (0 = none) [%s]", d.Lookup.Timeout))
	fs.StringVar(&opt.Malformed, "malformed", d.Lookup.Malformed, "identifiers without an accession: fail | predict ["+d.Lookup.Malformed+"]")

	fs.StringVar(&opt.Predictions, "predictions", "", "existing DeepFRI table; skips running the predictor")
	fs.StringVar(&opt.PredictorDir, "predictor-dir", d.Predictor.Dir, "DeepFRI checkout containing predict.py ["+d.Predictor.Dir+"]")
	fs.StringVar(&opt.Ontology, "ontology", d.Predictor.Ontology, "DeepFRI ontology: mf | bp | cc | ec ["+d.Predictor.Ontology+"]")
	fs.StringVar(&opt.Residual, "residual-fasta", d.Predictor.Residual, "where sequences without curated text are written ["+d.Predictor.Residual+"]")

	fs.StringVar(&opt.Out, "out", d.Output.Path, "output table path ["+d.Output.Path+"]")
	fs.StringVar(&opt.Out, "o", d.Output.Path, "output table path (shorthand)")
	fs.StringVar(&opt.Format, "format", d.Output.Format, "output format: csv | tsv | json | jsonl ["+d.Output.Format+"]")
	fs.IntVar(&opt.Preview, "preview", d.Output.Preview, fmt.Sprintf("rows printed after saving (0 = summary only) [%d]", d.Output.Preview))

	fs.StringVar(&opt.LogLevel, "log-level", d.Log.Level, "debug | info | warn | error ["+d.Log.Level+"]")
	fs.BoolVar(&opt.Quiet, "quiet", false, "only log errors [false]")
	fs.BoolVar(&opt.Quiet, "q", false, "only log errors (shorthand) [false]")
	fs.BoolVar(&opt.Verbose, "verbose", false, "log debug detail [false]")
	fs.StringVar(&opt.MetricsFile, "metrics-file", "", "write prometheus text metrics here after the run")

	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	opt.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { opt.set[canonical(f.Name)] = true })

	// Validation
	pos, err := cliutil.ExpandPositionals(append(posArgs, fs.Args()...))
	if err != nil {
		return opt, err
	}
	switch {
	case len(pos) > 1:
		return opt, fmt.Errorf("exactly one input FASTA expected, got %d", len(pos))
	case len(pos) == 1 && opt.Input != "":
		return opt, errors.New("input given both as --input and as a positional argument")
	case len(pos) == 1:
		opt.Input = pos[0]
	}
	if opt.Input == "" {
		return opt, errors.New("an input FASTA is required")
	}
	if opt.Workers < 1 {
		return opt, errors.New("--workers must be ≥ 1")
	}
	if opt.Timeout < 0 {
		return opt, errors.New("--timeout must be ≥ 0")
	}
	if opt.Preview < 0 {
		return opt, errors.New("--preview must be ≥ 0")
	}
	if opt.Quiet && opt.Verbose {
		return opt, errors.New("--quiet conflicts with --verbose")
	}
	return opt, nil
}

// canonical folds shorthand flag names into their long form.
func canonical(name string) string {
	switch name {
	case "i":
		return "input"
	case "o":
		return "out"
	case "q":
		return "quiet"
	case "v":
		return "version"
	}
	return name
}

// IsSet reports whether the named flag (long form) was given explicitly.
func (o Options) IsSet(name string) bool { return o.set[name] }

// Apply overlays the explicitly given flags on cfg; config file values
// survive for everything left unset.
func (o Options) Apply(cfg *config.Config) {
	if o.IsSet("uniprot-url") {
		cfg.UniProt.BaseURL = o.UniProtURL
	}
	if o.IsSet("workers") {
		cfg.Lookup.Workers = o.Workers
	}
	if o.IsSet("timeout") {
		cfg.Lookup.Timeout = o.Timeout
	}
	if o.IsSet("malformed") {
		cfg.Lookup.Malformed = o.Malformed
	}
	if o.IsSet("predictions") {
		cfg.Predictor.Table = o.Predictions
	}
	if o.IsSet("predictor-dir") {
		cfg.Predictor.Dir = o.PredictorDir
	}
	if o.IsSet("ontology") {
		cfg.Predictor.Ontology = o.Ontology
	}
	if o.IsSet("residual-fasta") {
		cfg.Predictor.Residual = o.Residual
	}
	if o.IsSet("out") {
		cfg.Output.Path = o.Out
	}
	if o.IsSet("format") {
		cfg.Output.Format = o.Format
	}
	if o.IsSet("preview") {
		cfg.Output.Preview = o.Preview
	}
	if o.IsSet("log-level") {
		cfg.Log.Level = o.LogLevel
	}
}
