package writers

import (
	"io"

	"protannot/internal/annotate"
	"protannot/internal/jsonutil"
	"protannot/pkg/api"
)

func init() { Register("json", writeJSON) }

// ToAPIRow converts a domain row to the stable wire schema (v1).
func ToAPIRow(r annotate.AnnotationRow) api.AnnotationRowV1 {
	return api.AnnotationRowV1{Protein: r.Protein, Function: r.Function, Source: string(r.Source)}
}

// writeJSON writes a single JSON array of v1 rows (pretty-indented).
func writeJSON(w io.Writer, rows []annotate.AnnotationRow) error {
	out := make([]api.AnnotationRowV1, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToAPIRow(r))
	}
	return jsonutil.EncodePretty(w, out)
}
