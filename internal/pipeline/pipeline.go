// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"protannot/internal/annotate"
	"protannot/internal/fasta"
	"protannot/internal/predictor"
)

// Observer receives per-run measurements. *metric.Metrics implements it.
type Observer interface {
	ObserveStage(stage string, elapsed time.Duration)
	ObservePredictionRows(n int)
	ObserveRows(rows []annotate.AnnotationRow)
}

// Config wires the collaborators of a run.
type Config struct {
	Extractor *annotate.Extractor
	Predictor predictor.Predictor

	// ResidualPath receives the records without curated text. Empty means a
	// temporary file that is removed when the run ends.
	ResidualPath string

	Logger   *slog.Logger
	Observer Observer
}

// Result is the reconciled table plus the counts reported at the end of a run.
type Result struct {
	Rows     []annotate.AnnotationRow
	Records  int
	Curated  int
	Residual int
	Table    string // prediction table consumed; empty when the predictor was skipped
}

// Run reads input ("-" for stdin, gzip allowed) and annotates every record.
func Run(ctx context.Context, cfg Config, input string) (Result, error) {
	start := time.Now()
	recs, err := fasta.ReadFile(ctx, input)
	if err != nil {
		return Result{}, annotate.WrapStage(annotate.StageRead, "", err)
	}
	cfg.observeStage(annotate.StageRead, start)
	cfg.logger().Info("read sequences", "input", input, "records", len(recs))
	return RunRecords(ctx, cfg, recs)
}

// RunRecords annotates records that are already in memory.
func RunRecords(ctx context.Context, cfg Config, recs []fasta.Record) (Result, error) {
	if cfg.Extractor == nil {
		return Result{}, errors.New("pipeline: Config.Extractor is nil")
	}
	log := cfg.logger()

	proteins := make([]annotate.ProteinRecord, len(recs))
	byID := make(map[string]fasta.Record, len(recs))
	for i, r := range recs {
		proteins[i] = annotate.ProteinRecord{ID: r.ID, Seq: r.Seq}
		if _, ok := byID[r.ID]; !ok {
			byID[r.ID] = r
		}
	}
	res := Result{Records: len(recs)}

	start := time.Now()
	curated, err := cfg.Extractor.Extract(ctx, proteins)
	if err != nil {
		return res, annotate.WrapStage(annotate.StageExtract, "", err)
	}
	cfg.observeStage(annotate.StageExtract, start)
	res.Curated = curated.Texts.Len()
	res.Residual = len(curated.Residual)
	log.Info("curated annotations resolved", "curated", res.Curated, "residual", res.Residual)

	predicted, table, err := cfg.predict(ctx, curated.Residual, byID)
	if err != nil {
		return res, err
	}
	res.Table = table

	start = time.Now()
	res.Rows = annotate.Reconcile(annotate.IDs(proteins), curated.Texts, predicted)
	cfg.observeStage(annotate.StageReconcile, start)
	if cfg.Observer != nil {
		cfg.Observer.ObserveRows(res.Rows)
	}
	return res, nil
}

// predict writes the residual records, runs the predictor on them, and
// aggregates its table. An empty residual set skips the predictor.
func (cfg Config) predict(ctx context.Context, residual []annotate.ProteinRecord, byID map[string]fasta.Record) (*annotate.OrderedMap[string, string], string, error) {
	if len(residual) == 0 {
		cfg.logger().Info("every record has curated text; skipping predictor")
		return nil, "", nil
	}
	if cfg.Predictor == nil {
		return nil, "", annotate.WrapStage(annotate.StagePredict, "", errors.New("no predictor configured"))
	}

	path, cleanup, err := cfg.residualFile()
	if err != nil {
		return nil, "", annotate.WrapStage(annotate.StagePredict, "", err)
	}
	defer cleanup()

	out := make([]fasta.Record, len(residual))
	for i, p := range residual {
		out[i] = byID[p.ID]
	}
	if err := fasta.WriteFile(path, out); err != nil {
		return nil, "", annotate.WrapStage(annotate.StagePredict, "", fmt.Errorf("write residual sequences: %w", err))
	}

	start := time.Now()
	table, err := cfg.Predictor.Predict(ctx, path)
	if err != nil {
		return nil, "", annotate.WrapStage(annotate.StagePredict, "", err)
	}
	cfg.observeStage(annotate.StagePredict, start)

	start = time.Now()
	entries, err := predictor.ReadTable(table)
	if err != nil {
		return nil, table, annotate.WrapStage(annotate.StageAggregate, "", err)
	}
	if cfg.Observer != nil {
		cfg.Observer.ObservePredictionRows(len(entries))
	}
	predicted := annotate.Aggregate(entries)
	cfg.observeStage(annotate.StageAggregate, start)
	cfg.logger().Info("predictions aggregated", "table", table, "rows", len(entries), "proteins", predicted.Len())
	return predicted, table, nil
}

func (cfg Config) residualFile() (string, func(), error) {
	if cfg.ResidualPath != "" {
		if dir := filepath.Dir(cfg.ResidualPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", nil, err
			}
		}
		return cfg.ResidualPath, func() {}, nil
	}
	dir, err := os.MkdirTemp("", "protannot-")
	if err != nil {
		return "", nil, err
	}
	return filepath.Join(dir, "residual.fa"), func() { _ = os.RemoveAll(dir) }, nil
}

func (cfg Config) observeStage(stage string, start time.Time) {
	if cfg.Observer != nil {
		cfg.Observer.ObserveStage(stage, time.Since(start))
	}
}

func (cfg Config) logger() *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.Default()
}
