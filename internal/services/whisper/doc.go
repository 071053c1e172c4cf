// Package whisper wraps the whisper.cpp command line engine plus the ffmpeg
// tools used to prepare audio for it.
package whisper
