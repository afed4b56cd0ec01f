package predictor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Predictor produces a prediction table for the sequences in fastaPath and
// returns the table's path.
type Predictor interface {
	Predict(ctx context.Context, fastaPath string) (string, error)
}

// StaticTable is a Predictor that returns an existing table without running anything.
type StaticTable string

func (s StaticTable) Predict(context.Context, string) (string, error) {
	if _, err := os.Stat(string(s)); err != nil {
		return "", err
	}
	return string(s), nil
}

var ontologies = map[string]bool{"mf": true, "bp": true, "cc": true, "ec": true}

// ValidOntology reports whether ont is one DeepFRI predicts.
func ValidOntology(ont string) bool { return ontologies[ont] }

// Runner invokes DeepFRI's predict.py as a child process.
type Runner struct {
	Python   string // interpreter; default "python3"
	Dir      string // DeepFRI checkout; child working directory
	Script   string // relative to Dir; default "predict.py"
	Ontology string // mf | bp | cc | ec; default "mf"
	Prefix   string // output file prefix; default "DeepFRI"
	Args     []string
	Stdout   io.Writer // child stdout; nil discards
	Logger   *slog.Logger
}

func (r *Runner) withDefaults() Runner {
	c := *r
	if c.Python == "" {
		c.Python = "python3"
	}
	if c.Script == "" {
		c.Script = "predict.py"
	}
	if c.Ontology == "" {
		c.Ontology = "mf"
	}
	if c.Prefix == "" {
		c.Prefix = "DeepFRI"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// OutputPath is the absolute path of the table a run writes.
func (r *Runner) OutputPath() (string, error) {
	c := r.withDefaults()
	dir, err := filepath.Abs(c.Dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s_predictions.csv", c.Prefix, strings.ToUpper(c.Ontology))), nil
}

// Command builds the child process for fastaPath without starting it.
func (r *Runner) Command(ctx context.Context, fastaPath string) (*exec.Cmd, error) {
	c := r.withDefaults()
	if !ValidOntology(c.Ontology) {
		return nil, fmt.Errorf("predictor: unknown ontology %q (want mf | bp | cc | ec)", c.Ontology)
	}
	dir, err := filepath.Abs(c.Dir)
	if err != nil {
		return nil, err
	}
	input, err := filepath.Abs(fastaPath)
	if err != nil {
		return nil, err
	}
	args := []string{
		filepath.Join(dir, c.Script),
		"--fasta_fn", input,
		"-ont", c.Ontology,
		"--output_fn_prefix", filepath.Join(dir, c.Prefix),
	}
	args = append(args, c.Args...)
	cmd := exec.CommandContext(ctx, c.Python, args...)
	cmd.Dir = dir
	return cmd, nil
}

// Predict runs the predictor on fastaPath and returns the table path.
// A table left over from an earlier run is removed first.
func (r *Runner) Predict(ctx context.Context, fastaPath string) (string, error) {
	c := r.withDefaults()
	out, err := r.OutputPath()
	if err != nil {
		return "", err
	}
	cmd, err := r.Command(ctx, fastaPath)
	if err != nil {
		return "", err
	}
	if err := os.Remove(out); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("predictor: remove stale table: %w", err)
	}

	var stderr tailBuffer
	cmd.Stdout = c.Stdout
	cmd.Stderr = &stderr

	c.Logger.Info("running predictor", "cmd", cmd.String(), "dir", cmd.Dir)
	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("predictor: %w: %s", err, msg)
		}
		return "", fmt.Errorf("predictor: %w", err)
	}
	c.Logger.Info("predictor finished", "elapsed", time.Since(start).Round(time.Millisecond), "table", out)

	if _, err := os.Stat(out); err != nil {
		return "", fmt.Errorf("predictor: expected output table: %w", err)
	}
	return out, nil
}

// tailBuffer keeps the last tailMax bytes written to it.
type tailBuffer struct{ bytes.Buffer }

const tailMax = 4 << 10

func (t *tailBuffer) Write(p []byte) (int, error) {
	n, _ := t.Buffer.Write(p)
	if extra := t.Len() - tailMax; extra > 0 {
		t.Next(extra)
	}
	return n, nil
}
