package writers

import (
	"fmt"
	"io"
	"text/tabwriter"
	"unicode/utf8"

	"protannot/internal/annotate"
)

// PreviewWidth caps the Function column in the console preview.
const PreviewWidth = 80

// WritePreview prints where the table was saved and its first limit rows.
// limit <= 0 prints only the summary lines.
func WritePreview(w io.Writer, savedAs string, rows []annotate.AnnotationRow, limit int) error {
	if _, err := fmt.Fprintf(w, "Results are saved as %s. This is a preview:\n", savedAs); err != nil {
		return err
	}
	if limit > 0 && len(rows) > 0 {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintf(tw, "\t%s\t%s\n", Header[0], Header[1])
		n := min(limit, len(rows))
		for i, r := range rows[:n] {
			_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", i, r.Protein, truncate(r.Function, PreviewWidth))
		}
		if n < len(rows) {
			_, _ = fmt.Fprintln(tw, "...\t...\t...")
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "[%d rows x %d columns]\n", len(rows), len(Header))
	return err
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}
