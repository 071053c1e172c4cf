// Package transcript defines the recognized-speech segment model and the
// SubRip codec shared by the recognition, evaluation, and cue stages.
package transcript
