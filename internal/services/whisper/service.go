package whisper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"retake/internal/language"
	"retake/internal/services"
	"retake/internal/transcript"
)

// Config selects the engine binaries and model.
type Config struct {
	Binary        string
	ModelPath     string
	FFmpegBinary  string
	FFprobeBinary string
	// Language is a hint passed to the engine; empty means auto-detect.
	Language string
}

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Service invokes the whisper.cpp CLI and the ffmpeg tools as subprocesses.
type Service struct {
	cfg Config
	run commandRunner
}

// Option customizes a Service.
type Option func(*Service)

// WithCommandRunner substitutes the subprocess runner, used by tests to
// avoid spawning real binaries.
func WithCommandRunner(run commandRunner) Option {
	return func(s *Service) { s.run = run }
}

func New(cfg Config, opts ...Option) *Service {
	if cfg.FFmpegBinary == "" {
		cfg.FFmpegBinary = "ffmpeg"
	}
	if cfg.FFprobeBinary == "" {
		cfg.FFprobeBinary = "ffprobe"
	}
	cfg.Language = language.Normalize(cfg.Language)
	svc := &Service{
		cfg: cfg,
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// CheckAvailable verifies the engine binary and model exist before any work
// starts.
func (s *Service) CheckAvailable() error {
	if err := checkBinary(s.cfg.Binary); err != nil {
		return services.Wrap(services.ErrEngineUnavailable, "whisper", "check engine", "", err)
	}
	if s.cfg.ModelPath == "" {
		return services.Wrap(services.ErrEngineUnavailable, "whisper", "check model", "model path not configured", nil)
	}
	if _, err := os.Stat(s.cfg.ModelPath); err != nil {
		return services.Wrap(services.ErrEngineUnavailable, "whisper", "check model", "", err)
	}
	return nil
}

func checkBinary(binary string) error {
	if binary == "" {
		return fmt.Errorf("engine binary not configured")
	}
	if strings.ContainsRune(binary, os.PathSeparator) {
		_, err := os.Stat(binary)
		return err
	}
	_, err := exec.LookPath(binary)
	return err
}

// Transcribe runs recognition over audioPath and returns the parsed
// segments. The engine writes its SubRip output into outputDir.
func (s *Service) Transcribe(ctx context.Context, audioPath, outputDir string) ([]transcript.Segment, error) {
	if err := s.CheckAvailable(); err != nil {
		return nil, err
	}

	args := []string{
		"--model", s.cfg.ModelPath,
		"--output-srt",
		"--output-file", filepath.Join(outputDir, outputBase(audioPath)),
	}
	if s.cfg.Language != "" {
		args = append(args, "--language", s.cfg.Language)
	}
	args = append(args, "--file", audioPath)

	output, err := s.run(ctx, s.cfg.Binary, args...)
	if err != nil {
		if services.IsCancelled(ctx.Err()) {
			return nil, ctx.Err()
		}
		return nil, services.Wrap(services.ErrEngineUnavailable, "whisper", "run engine",
			tailLines(string(output), 5), err)
	}

	srtPath := filepath.Join(outputDir, outputBase(audioPath)+".srt")
	data, err := os.ReadFile(srtPath)
	if err != nil {
		return nil, services.Wrap(services.ErrMalformedOutput, "whisper", "read output",
			fmt.Sprintf("engine produced no subtitle file at %s", srtPath), err)
	}

	segments, err := transcript.ParseSRT(data)
	if err != nil {
		return nil, err
	}
	if err := validateTimeline(segments); err != nil {
		return nil, err
	}
	return segments, nil
}

// ProbeDuration asks ffprobe for the audio duration in seconds.
func (s *Service) ProbeDuration(ctx context.Context, audioPath string) (float64, error) {
	output, err := s.run(ctx, s.cfg.FFprobeBinary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath)
	if err != nil {
		return 0, services.Wrap(services.ErrEngineUnavailable, "whisper", "probe duration",
			tailLines(string(output), 3), err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil || duration < 0 {
		return 0, services.Wrap(services.ErrMalformedOutput, "whisper", "probe duration",
			fmt.Sprintf("ffprobe reported %q", strings.TrimSpace(string(output))), err)
	}
	return duration, nil
}

// ExtractAudio decodes the source into the 16 kHz mono WAV the engine
// expects.
func (s *Service) ExtractAudio(ctx context.Context, sourcePath, outPath string) error {
	output, err := s.run(ctx, s.cfg.FFmpegBinary,
		"-y",
		"-i", sourcePath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		outPath)
	if err != nil {
		if services.IsCancelled(ctx.Err()) {
			return ctx.Err()
		}
		return services.Wrap(services.ErrEngineUnavailable, "whisper", "extract audio",
			tailLines(string(output), 5), err)
	}
	return nil
}

func outputBase(audioPath string) string {
	base := filepath.Base(audioPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func validateTimeline(segments []transcript.Segment) error {
	prevEnd := 0.0
	for i, seg := range segments {
		if seg.End < seg.Start {
			return services.Wrap(services.ErrMalformedOutput, "whisper", "validate output",
				fmt.Sprintf("segment %d runs backwards [%0.3f, %0.3f]", i+1, seg.Start, seg.End), nil)
		}
		if seg.Start < prevEnd {
			return services.Wrap(services.ErrMalformedOutput, "whisper", "validate output",
				fmt.Sprintf("segment %d overlaps its predecessor", i+1), nil)
		}
		prevEnd = seg.End
	}
	return nil
}

func tailLines(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
