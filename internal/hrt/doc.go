// Package hrt builds display cues from cleaned-timeline segments and
// serializes the timed-text subtitle output. Cues obey a hard display
// window: every cue except the last runs between the configured floor and
// ceiling.
package hrt
