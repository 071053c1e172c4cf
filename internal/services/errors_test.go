package services_test

import (
	"context"
	"errors"
	"testing"

	"retake/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	err := services.Wrap(services.ErrEngineUnavailable, "transcribe", "run engine", "whisper-cli missing", nil)
	if !errors.Is(err, services.ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
	want := "recognition engine unavailable: transcribe: run engine: whisper-cli missing"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := services.Wrap(services.ErrEvaluationUnavailable, "evaluate", "backend call", "", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("cause not preserved: %v", err)
	}
	if !errors.Is(err, services.ErrEvaluationUnavailable) {
		t.Fatalf("marker not preserved: %v", err)
	}
}

func TestIsCancelled(t *testing.T) {
	wrapped := services.Wrap(nil, "trim", "cut audio", "", context.Canceled)
	if !services.IsCancelled(wrapped) {
		t.Fatal("wrapped context.Canceled should classify as cancelled")
	}
	if services.IsCancelled(services.ErrNothingRetained) {
		t.Fatal("NothingRetained is not cancellation")
	}
}
