// Package annotate merges curated and predicted functional annotations into
// exactly one row per input protein.
//
// Stages:
//   - Extractor splits records into curated text and a residual set that has
//     no curated comment.
//   - Aggregate ranks predictor rows per protein into a single label string.
//   - Reconcile resolves every identifier: curated, else predicted, else
//     UnknownFunction.
//
// Stages never mutate their inputs. All result mappings are OrderedMaps so
// iteration order is part of the contract, not an accident of map layout.
package annotate
