package trim

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"retake/internal/logging"
	"retake/internal/services"
)

// Config parameterizes the ffmpeg cut.
type Config struct {
	FFmpegBinary string
	// CrossfadeMilliseconds smooths each join between kept spans. The fade
	// never exceeds half the shorter span; zero disables fading.
	CrossfadeMilliseconds int
}

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Trimmer cuts the dropped spans out of an audio file with a single ffmpeg
// invocation.
type Trimmer struct {
	cfg Config
	run commandRunner
}

// Option customizes a Trimmer.
type Option func(*Trimmer)

// WithCommandRunner substitutes the subprocess runner for tests.
func WithCommandRunner(run commandRunner) Option {
	return func(t *Trimmer) { t.run = run }
}

func New(cfg Config, opts ...Option) *Trimmer {
	if cfg.FFmpegBinary == "" {
		cfg.FFmpegBinary = "ffmpeg"
	}
	t := &Trimmer{
		cfg: cfg,
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Trim writes the concatenation of the kept intervals of audioPath to
// outPath. kept must be merged and ordered; an empty set is
// ErrNothingRetained.
func (t *Trimmer) Trim(ctx context.Context, audioPath string, kept []Interval, outPath string) error {
	if len(kept) == 0 {
		return services.Wrap(services.ErrNothingRetained, "trim", "cut audio",
			"every segment was dropped, refusing to write empty audio", nil)
	}

	logger := logging.FromContext(ctx)
	filter := t.buildFilter(kept)
	args := []string{
		"-y",
		"-i", audioPath,
		"-filter_complex", filter,
		"-map", "[out]",
		outPath,
	}

	logger.Debug("cutting audio", "spans", len(kept), "filter_length", len(filter))
	output, err := t.run(ctx, t.cfg.FFmpegBinary, args...)
	if err != nil {
		if services.IsCancelled(ctx.Err()) {
			return ctx.Err()
		}
		return services.Wrap(services.ErrEngineUnavailable, "trim", "cut audio",
			tailLines(string(output), 5), err)
	}
	return nil
}

// buildFilter renders the filter_complex graph: one atrim per kept span,
// then either a plain concat or an acrossfade chain over the joins.
func (t *Trimmer) buildFilter(kept []Interval) string {
	var b strings.Builder
	for i, iv := range kept {
		fmt.Fprintf(&b, "[0:a]atrim=start=%.6f:end=%.6f,asetpts=PTS-STARTPTS[s%d];", iv.Start, iv.End, i)
	}

	if len(kept) == 1 {
		b.WriteString("[s0]acopy[out]")
		return b.String()
	}

	if t.cfg.CrossfadeMilliseconds <= 0 {
		for i := range kept {
			fmt.Fprintf(&b, "[s%d]", i)
		}
		fmt.Fprintf(&b, "concat=n=%d:v=0:a=1[out]", len(kept))
		return b.String()
	}

	prev := "s0"
	for i := 1; i < len(kept); i++ {
		fade := crossfadeSeconds(t.cfg.CrossfadeMilliseconds, kept[i-1], kept[i])
		label := fmt.Sprintf("x%d", i)
		if i == len(kept)-1 {
			label = "out"
		}
		fmt.Fprintf(&b, "[%s][s%d]acrossfade=d=%.6f:c1=tri:c2=tri[%s];", prev, i, fade, label)
		prev = label
	}
	return strings.TrimSuffix(b.String(), ";")
}

// crossfadeSeconds caps the configured fade at half the shorter of the two
// spans being joined so a fade can never consume a whole span.
func crossfadeSeconds(ms int, a, b Interval) float64 {
	fade := float64(ms) / 1000
	if limit := a.Seconds() / 2; fade > limit {
		fade = limit
	}
	if limit := b.Seconds() / 2; fade > limit {
		fade = limit
	}
	if fade < Epsilon {
		fade = Epsilon
	}
	return fade
}

func tailLines(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
