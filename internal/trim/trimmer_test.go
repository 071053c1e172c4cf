package trim_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"retake/internal/services"
	"retake/internal/trim"
)

func TestTrimBuildsConcatFilter(t *testing.T) {
	var gotArgs []string
	trimmer := trim.New(trim.Config{FFmpegBinary: "ffmpeg"}, trim.WithCommandRunner(
		func(ctx context.Context, name string, args ...string) ([]byte, error) {
			gotArgs = args
			return nil, nil
		}))

	kept := []trim.Interval{{Start: 0, End: 2}, {Start: 4, End: 6}}
	if err := trimmer.Trim(context.Background(), "in.wav", kept, "out.wav"); err != nil {
		t.Fatalf("Trim: %v", err)
	}

	filter := argAfter(t, gotArgs, "-filter_complex")
	if !strings.Contains(filter, "atrim=start=0.000000:end=2.000000") {
		t.Errorf("filter missing first span: %s", filter)
	}
	if !strings.Contains(filter, "concat=n=2:v=0:a=1[out]") {
		t.Errorf("filter missing concat: %s", filter)
	}
	if argAfter(t, gotArgs, "-map") != "[out]" {
		t.Errorf("output not mapped: %v", gotArgs)
	}
}

func TestTrimCrossfadeCapped(t *testing.T) {
	var filter string
	trimmer := trim.New(trim.Config{CrossfadeMilliseconds: 5000}, trim.WithCommandRunner(
		func(ctx context.Context, name string, args ...string) ([]byte, error) {
			filter = argAfter(t, args, "-filter_complex")
			return nil, nil
		}))

	// Second span is only 1s, so the 5s fade must shrink to 0.5s.
	kept := []trim.Interval{{Start: 0, End: 10}, {Start: 12, End: 13}}
	if err := trimmer.Trim(context.Background(), "in.wav", kept, "out.wav"); err != nil {
		t.Fatalf("Trim: %v", err)
	}
	if !strings.Contains(filter, "acrossfade=d=0.500000") {
		t.Errorf("fade not capped at half the shorter span: %s", filter)
	}
	if !strings.Contains(filter, "[out]") {
		t.Errorf("final label missing: %s", filter)
	}
}

func TestTrimSingleSpan(t *testing.T) {
	var filter string
	trimmer := trim.New(trim.Config{}, trim.WithCommandRunner(
		func(ctx context.Context, name string, args ...string) ([]byte, error) {
			filter = argAfter(t, args, "-filter_complex")
			return nil, nil
		}))
	kept := []trim.Interval{{Start: 1, End: 2}}
	if err := trimmer.Trim(context.Background(), "in.wav", kept, "out.wav"); err != nil {
		t.Fatalf("Trim: %v", err)
	}
	if !strings.Contains(filter, "[s0]acopy[out]") {
		t.Errorf("single span should pass through: %s", filter)
	}
}

func TestTrimNothingRetained(t *testing.T) {
	trimmer := trim.New(trim.Config{}, trim.WithCommandRunner(
		func(ctx context.Context, name string, args ...string) ([]byte, error) {
			t.Fatal("ffmpeg must not run with nothing to keep")
			return nil, nil
		}))
	err := trimmer.Trim(context.Background(), "in.wav", nil, "out.wav")
	if !errors.Is(err, services.ErrNothingRetained) {
		t.Fatalf("expected nothing-retained marker, got %v", err)
	}
}

func TestTrimToolFailure(t *testing.T) {
	trimmer := trim.New(trim.Config{}, trim.WithCommandRunner(
		func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte("Invalid argument"), fmt.Errorf("exit status 1")
		}))
	err := trimmer.Trim(context.Background(), "in.wav", []trim.Interval{{Start: 0, End: 1}}, "out.wav")
	if err == nil || !strings.Contains(err.Error(), "Invalid argument") {
		t.Fatalf("tool output should surface in the error, got %v", err)
	}
}

func argAfter(t *testing.T, args []string, flag string) string {
	t.Helper()
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	t.Fatalf("flag %s not found in %v", flag, args)
	return ""
}
