// Package evaluate conditions transcribed segments and asks an AI backend
// which of them belong in the final cut. The evaluator fails open: when the
// backend cannot be reached or answers nonsense, segments are kept so the
// pipeline never cuts audio on a guess.
package evaluate
