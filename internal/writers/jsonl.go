package writers

import (
	"encoding/json"
	"io"

	"protannot/internal/annotate"
	"protannot/internal/jsonlutil"
)

func init() { Register("jsonl", writeJSONL) }

// writeJSONL streams one compact v1 object per line.
func writeJSONL(w io.Writer, rows []annotate.AnnotationRow) error {
	in, done := jsonlutil.Start(w, 64, func(enc *json.Encoder, r annotate.AnnotationRow) error {
		return enc.Encode(ToAPIRow(r))
	}, IsBrokenPipe)
	for _, r := range rows {
		in <- r
	}
	close(in)
	return <-done
}
