// Package trim computes which spans of the source audio survive the drop
// verdicts, cuts the audio with ffmpeg, and maps timestamps between the
// source and cleaned timelines.
package trim
