// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"protannot/internal/annotate"
)

// RowWriter serializes a complete table.
type RowWriter func(w io.Writer, rows []annotate.AnnotationRow) error

// Writer registry (format → handler), filled from init() blocks.
var rowWriters = map[string]RowWriter{}

// Register installs fn for format (last wins).
func Register(format string, fn RowWriter) { rowWriters[format] = fn }

// Formats lists registered formats, sorted.
func Formats() []string {
	out := make([]string, 0, len(rowWriters))
	for f := range rowWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Write dispatches to the writer registered for format.
func Write(format string, w io.Writer, rows []annotate.AnnotationRow) error {
	fn, ok := rowWriters[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return fn(w, rows)
}
