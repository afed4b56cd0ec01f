// internal/cli/options_test.go
package cli

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"protannot/internal/config"
)

func newFS() *flag.FlagSet { return NewQuietFlagSet("test") }

func mustParse(t *testing.T, args ...string) Options {
	t.Helper()
	opts, err := ParseArgs(newFS(), args)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	return opts
}

func TestPositionalInputOK(t *testing.T) {
	o := mustParse(t, "proteins.fa", "--workers", "8")
	if o.Input != "proteins.fa" || o.Workers != 8 {
		t.Errorf("bad parse %+v", o)
	}
}

func TestFlagInputOK(t *testing.T) {
	o := mustParse(t, "-i", "-", "--format", "json", "--timeout", "5s")
	if o.Input != "-" || o.Format != "json" || o.Timeout != 5*time.Second {
		t.Errorf("bad parse %+v", o)
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	o := mustParse(t, "x.fa")
	d := config.Default()
	if o.Workers != d.Lookup.Workers || o.Out != d.Output.Path || o.Preview != d.Output.Preview {
		t.Errorf("defaults drifted: %+v", o)
	}
}

func TestErrorNoInput(t *testing.T) {
	if _, err := ParseArgs(newFS(), []string{"--workers", "2"}); err == nil {
		t.Fatal("expected error without input")
	}
}

func TestErrorTwoInputs(t *testing.T) {
	if _, err := ParseArgs(newFS(), []string{"a.fa", "b.fa"}); err == nil {
		t.Fatal("expected error with two inputs")
	}
	if _, err := ParseArgs(newFS(), []string{"-i", "a.fa", "b.fa"}); err == nil {
		t.Fatal("expected error with --input and positional")
	}
}

func TestGlobInput(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "only.fa")
	if err := os.WriteFile(p, []byte(">a\nM\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	o := mustParse(t, filepath.Join(dir, "*.fa"))
	if o.Input != p {
		t.Errorf("glob not expanded: %q", o.Input)
	}
}

func TestErrorRanges(t *testing.T) {
	for _, args := range [][]string{
		{"x.fa", "--workers", "0"},
		{"x.fa", "--timeout", "-1s"},
		{"x.fa", "--preview", "-3"},
		{"x.fa", "--quiet", "--verbose"},
	} {
		if _, err := ParseArgs(newFS(), args); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestHelpAndVersion(t *testing.T) {
	if _, err := ParseArgs(newFS(), []string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("want ErrHelp, got %v", err)
	}
	o := mustParse(t, "--version")
	if !o.Version {
		t.Fatal("version flag not set")
	}
}

func TestApplyOnlyExplicitFlags(t *testing.T) {
	cfg := config.Default()
	cfg.Lookup.Workers = 16 // as if from a config file
	cfg.Output.Format = "tsv"

	o := mustParse(t, "x.fa", "-o", "out.json", "--format", "json", "--predictions", "t.csv")
	o.Apply(&cfg)

	if cfg.Lookup.Workers != 16 {
		t.Errorf("unset flag overrode config: workers=%d", cfg.Lookup.Workers)
	}
	if cfg.Output.Path != "out.json" || cfg.Output.Format != "json" || cfg.Predictor.Table != "t.csv" {
		t.Errorf("explicit flags not applied: %+v", cfg.Output)
	}
}
