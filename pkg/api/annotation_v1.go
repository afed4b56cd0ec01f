// pkg/api/annotation_v1.go
package api

// AnnotationRowV1 is the stable JSON schema for one output row.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type AnnotationRowV1 struct {
	Protein  string `json:"protein"`
	Function string `json:"function"`
	Source   string `json:"source,omitempty"` // "curated" | "predicted" | "unknown"
}
