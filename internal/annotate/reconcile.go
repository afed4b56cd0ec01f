package annotate

// Reconcile emits exactly one row per distinct identifier in ids, in ids
// order (repeats collapse to the first occurrence). Curated text wins over
// predicted labels; identifiers in neither map get UnknownFunction.
// Nil maps are treated as empty.
func Reconcile(ids []string, curated, predicted *OrderedMap[string, string]) []AnnotationRow {
	rows := make([]AnnotationRow, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, Resolve(id, curated, predicted))
	}
	return rows
}

// Resolve applies the curated > predicted > unknown priority to one identifier.
func Resolve(id string, curated, predicted *OrderedMap[string, string]) AnnotationRow {
	if text, ok := curated.Get(id); ok {
		return AnnotationRow{Protein: id, Function: text, Source: SourceCurated}
	}
	if text, ok := predicted.Get(id); ok {
		return AnnotationRow{Protein: id, Function: text, Source: SourcePredicted}
	}
	return AnnotationRow{Protein: id, Function: UnknownFunction, Source: SourceUnknown}
}

// CountBySource tallies rows per resolving tier.
func CountBySource(rows []AnnotationRow) map[Source]int {
	out := map[Source]int{SourceCurated: 0, SourcePredicted: 0, SourceUnknown: 0}
	for _, r := range rows {
		out[r.Source]++
	}
	return out
}
