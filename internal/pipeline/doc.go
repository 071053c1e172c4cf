// Package pipeline coordinates a full cleaning run: first-pass
// transcription, AI quality evaluation, audio trimming, optional secondary
// transcription, cue building, and atomic publication of the outputs.
package pipeline
