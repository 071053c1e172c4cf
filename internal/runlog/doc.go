// Package runlog persists per-run pipeline history (inputs, outputs,
// reduction stats, outcome) in a local sqlite database so users can review
// what past cleanings did.
package runlog
