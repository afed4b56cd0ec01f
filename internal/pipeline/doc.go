// Package pipeline runs one annotation pass: read sequences, resolve curated
// text, predict the remainder, and reconcile everything into one table.
//
// The pipeline only orchestrates. Curated lookups come in through
// annotate.Lookup and predictions through predictor.Predictor, so both can be
// swapped out in tests.
package pipeline
