package annotate

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FormatCurated renders database function comments as one cell.
// Comments are NFC-normalized and their whitespace collapsed; empty ones are dropped.
func FormatCurated(comments []string) string {
	parts := make([]string, 0, len(comments))
	for _, c := range comments {
		if c = NormalizeComment(c); c != "" {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return CuratedPrefix + strings.Join(parts, LabelSeparator)
}

// NormalizeComment applies NFC and collapses runs of whitespace (including
// the line wraps the database puts in long comments) to single spaces.
func NormalizeComment(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// FormatPredicted renders an already ranked group. A single entry yields no separator.
func FormatPredicted(ranked []PredictionEntry) string {
	labels := make([]string, len(ranked))
	for i, e := range ranked {
		labels[i] = e.Label
	}
	return PredictedPrefix + strings.Join(labels, LabelSeparator)
}
