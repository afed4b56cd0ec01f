// Package predictor runs the external DeepFRI predictor and reads the
// comment-prefixed CSV table it writes.
//
// The runner never changes the process working directory: the child gets
// cmd.Dir and absolute paths for every file argument.
package predictor
