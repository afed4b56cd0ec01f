// Package writers turns reconciled annotation rows into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (CSV/TSV/JSON, console preview).
//   - annotate stays domain-only; pipeline stays orchestration-only.
//   - JSON goes through pkg/api (v1) for a stable wire format.
package writers
