package predictor

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"protannot/internal/annotate"
)

// Required column names of the predictor table.
const (
	ColProtein = "Protein"
	ColScore   = "Score"
	ColLabel   = "GO_term/EC_number name"
)

// ReadTable parses the predictor CSV at path.
func ReadTable(path string) ([]annotate.PredictionEntry, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	return ParseTable(path, fh)
}

// ParseTable reads (Protein, Score, label) rows from CSV. Lines starting
// with '#' are ignored; other columns are ignored. A missing required
// column or an unreadable row is a *annotate.SchemaError.
func ParseTable(name string, r io.Reader) ([]annotate.PredictionEntry, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &annotate.SchemaError{Path: name, Missing: []string{ColProtein, ColScore, ColLabel}}
	}
	if err != nil {
		return nil, csvSchemaError(name, err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := col[h]; !dup {
			col[h] = i
		}
	}
	var missing []string
	for _, want := range []string{ColProtein, ColScore, ColLabel} {
		if _, ok := col[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, &annotate.SchemaError{Path: name, Missing: missing}
	}
	iProt, iScore, iLabel := col[ColProtein], col[ColScore], col[ColLabel]
	need := max(iProt, iScore, iLabel)

	var rows []annotate.PredictionEntry
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvSchemaError(name, err)
		}
		line, _ := cr.FieldPos(0)
		if len(rec) <= need {
			return nil, &annotate.SchemaError{Path: name, Line: line,
				Err: fmt.Errorf("row has %d field(s), need at least %d", len(rec), need+1)}
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(rec[iScore]), 64)
		if err != nil {
			return nil, &annotate.SchemaError{Path: name, Line: line, Err: fmt.Errorf("bad %s %q", ColScore, rec[iScore])}
		}
		rows = append(rows, annotate.PredictionEntry{
			Protein: strings.TrimSpace(rec[iProt]),
			Score:   score,
			Label:   strings.TrimSpace(rec[iLabel]),
		})
	}
	return rows, nil
}

func csvSchemaError(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &annotate.SchemaError{Path: name, Line: pe.Line, Err: pe.Err}
	}
	return &annotate.SchemaError{Path: name, Err: err}
}
