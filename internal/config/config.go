// Package config loads protannot settings from an optional YAML file.
// Values not present in the file keep their Default(); CLI flags are
// applied on top by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"protannot/internal/annotate"
	"protannot/internal/predictor"
	"protannot/internal/retry"
	"protannot/internal/uniprot"
)

type Config struct {
	UniProt   UniProt   `yaml:"uniprot"`
	Lookup    Lookup    `yaml:"lookup"`
	Predictor Predictor `yaml:"predictor"`
	Output    Output    `yaml:"output"`
	Log       Log       `yaml:"log"`
}

type UniProt struct {
	BaseURL           string        `yaml:"base_url"`
	UserAgent         string        `yaml:"user_agent"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	RequestTimeout    time.Duration `yaml:"request_timeout"` // per HTTP attempt; bounds stalled connections
	Retry             Retry         `yaml:"retry"`
}

type Retry struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
}

type Lookup struct {
	Workers   int           `yaml:"workers"`
	Timeout   time.Duration `yaml:"timeout"`
	Malformed string        `yaml:"malformed"` // fail | predict
}

type Predictor struct {
	Python   string   `yaml:"python"`
	Dir      string   `yaml:"dir"`
	Script   string   `yaml:"script"`
	Ontology string   `yaml:"ontology"`
	Prefix   string   `yaml:"prefix"`
	Args     []string `yaml:"args"`
	Table    string   `yaml:"table"`          // use this table instead of running the predictor
	Residual string   `yaml:"residual_fasta"` // where records without curated text are written
}

type Output struct {
	Path    string `yaml:"path"`
	Format  string `yaml:"format"` // csv | tsv | json | jsonl
	Preview int    `yaml:"preview"`
}

type Log struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

func Default() Config {
	rc := retry.DefaultConfig()
	return Config{
		UniProt: UniProt{
			BaseURL:           uniprot.DefaultBaseURL,
			RequestsPerSecond: 10,
			Burst:             4,
			RequestTimeout:    uniprot.DefaultRequestTimeout,
			Retry: Retry{
				MaxAttempts:  rc.MaxAttempts,
				InitialDelay: rc.InitialDelay,
				MaxDelay:     rc.MaxDelay,
			},
		},
		Lookup: Lookup{
			Workers:   4,
			Timeout:   30 * time.Second,
			Malformed: "fail",
		},
		Predictor: Predictor{
			Python:   "python3",
			Dir:      "DeepFri",
			Script:   "predict.py",
			Ontology: "mf",
			Prefix:   "DeepFRI",
			Residual: "deep_fri_input.fa",
		},
		Output: Output{
			Path:    "annotation.csv",
			Format:  "csv",
			Preview: 10,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path over Default(). An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if c.Lookup.Workers < 1 {
		errs = append(errs, errors.New("lookup.workers must be ≥ 1"))
	}
	if c.Lookup.Timeout < 0 {
		errs = append(errs, errors.New("lookup.timeout must be ≥ 0"))
	}
	if _, err := annotate.ParseMalformedPolicy(c.Lookup.Malformed); err != nil {
		errs = append(errs, err)
	}
	if c.UniProt.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("uniprot.requests_per_second must be ≥ 0"))
	}
	if c.UniProt.RequestTimeout <= 0 {
		errs = append(errs, errors.New("uniprot.request_timeout must be > 0"))
	}
	if c.UniProt.Retry.MaxAttempts < 1 {
		errs = append(errs, errors.New("uniprot.retry.max_attempts must be ≥ 1"))
	}
	if !predictor.ValidOntology(c.Predictor.Ontology) {
		errs = append(errs, fmt.Errorf("invalid predictor.ontology %q", c.Predictor.Ontology))
	}
	if c.Predictor.Table == "" && c.Predictor.Dir == "" {
		errs = append(errs, errors.New("predictor.dir or predictor.table is required"))
	}
	switch c.Output.Format {
	case "csv", "tsv", "json", "jsonl":
	default:
		errs = append(errs, fmt.Errorf("invalid output.format %q", c.Output.Format))
	}
	if c.Output.Preview < 0 {
		errs = append(errs, errors.New("output.preview must be ≥ 0"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log.level %q", c.Log.Level))
	}
	return errors.Join(errs...)
}

// RetryConfig converts to the retry package's settings.
func (u UniProt) RetryConfig() retry.Config {
	rc := retry.DefaultConfig()
	rc.MaxAttempts = u.Retry.MaxAttempts
	if u.Retry.InitialDelay > 0 {
		rc.InitialDelay = u.Retry.InitialDelay
	}
	if u.Retry.MaxDelay > 0 {
		rc.MaxDelay = u.Retry.MaxDelay
	}
	return rc
}

// ClientConfig converts to the uniprot client's settings.
func (u UniProt) ClientConfig() uniprot.Config {
	return uniprot.Config{
		BaseURL:           u.BaseURL,
		UserAgent:         u.UserAgent,
		RequestsPerSecond: u.RequestsPerSecond,
		Burst:             u.Burst,
		Retry:             u.RetryConfig(),
		RequestTimeout:    u.RequestTimeout,
	}
}
