package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks invalid configuration detected before any
	// processing starts (bad URL, unknown dialect, missing key).
	ErrConfiguration = errors.New("configuration error")
	// ErrEngineUnavailable marks a recognition engine that could not be
	// located or exited non-zero.
	ErrEngineUnavailable = errors.New("recognition engine unavailable")
	// ErrMalformedOutput marks engine output with missing, non-monotonic,
	// or unparsable timestamps.
	ErrMalformedOutput = errors.New("malformed engine output")
	// ErrEvaluationUnavailable marks an AI backend call that failed with a
	// non-success status, malformed body, or network timeout.
	ErrEvaluationUnavailable = errors.New("evaluation backend unavailable")
	// ErrNothingRetained marks a trim run where every segment was dropped.
	ErrNothingRetained = errors.New("nothing retained")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		if err != nil {
			return fmt.Errorf("%s: %w", detail, err)
		}
		return errors.New(detail)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsCancelled reports whether err represents run cancellation rather than a
// failure. Cancellation is a normal terminal outcome, not a defect.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
