package annotate

import (
	"math"
	"sort"
)

// Aggregate groups predictor rows by protein, ranks each group, and returns
// one formatted label string per protein in order of first appearance.
// Input order is not assumed to be grouped or sorted.
func Aggregate(rows []PredictionEntry) *OrderedMap[string, string] {
	groups := NewOrderedMap[string, []PredictionEntry](0)
	for _, r := range rows {
		g, _ := groups.Get(r.Protein)
		groups.Set(r.Protein, append(g, r))
	}
	out := NewOrderedMap[string, string](groups.Len())
	groups.Range(func(id string, g []PredictionEntry) bool {
		out.Set(id, FormatPredicted(RankGroup(g)))
		return true
	})
	return out
}

// RankGroup returns a copy of g sorted by score, highest first.
// Ties keep their input order; NaN scores sort last.
func RankGroup(g []PredictionEntry) []PredictionEntry {
	ranked := append([]PredictionEntry(nil), g...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scoreAbove(ranked[i].Score, ranked[j].Score)
	})
	return ranked
}

func scoreAbove(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}
