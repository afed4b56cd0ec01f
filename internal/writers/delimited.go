package writers

import (
	"encoding/csv"
	"io"

	"protannot/internal/annotate"
)

// Header is the column row of delimited outputs.
var Header = []string{"Protein", "Function"}

func init() {
	Register("csv", func(w io.Writer, rows []annotate.AnnotationRow) error { return writeDelimited(w, rows, ',') })
	Register("tsv", func(w io.Writer, rows []annotate.AnnotationRow) error { return writeDelimited(w, rows, '\t') })
}

func writeDelimited(w io.Writer, rows []annotate.AnnotationRow, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Protein, r.Function}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
