// Command retake cleans recorded takes: it transcribes a recording, asks an
// AI backend which segments to drop, cuts them out of the audio, and writes
// a precisely timed subtitle file.
package main
