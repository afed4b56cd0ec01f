package annotate

// ProteinRecord is one input sequence. ID is unique within a run.
type ProteinRecord struct {
	ID  string
	Seq []byte
}

// PredictionEntry is one row of the predictor's output table.
type PredictionEntry struct {
	Protein string
	Score   float64
	Label   string
}

// Source records which tier resolved an AnnotationRow.
type Source string

const (
	SourceCurated   Source = "curated"
	SourcePredicted Source = "predicted"
	SourceUnknown   Source = "unknown"
)

// AnnotationRow is one line of the final table.
type AnnotationRow struct {
	Protein  string
	Function string
	Source   Source
}

// Fixed output texts.
const (
	UnknownFunction = "Unknown function"
	CuratedPrefix   = "Uniprot annotations: "
	PredictedPrefix = "DeepFri predictions: "
	LabelSeparator  = " | "
)

// IDs returns the record identifiers in input order.
func IDs(records []ProteinRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
