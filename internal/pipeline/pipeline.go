package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"retake/internal/config"
	"retake/internal/evaluate"
	"retake/internal/fileutil"
	"retake/internal/hrt"
	"retake/internal/logging"
	"retake/internal/runlog"
	"retake/internal/services"
	"retake/internal/services/whisper"
	"retake/internal/transcript"
	"retake/internal/trim"
)

// Result summarizes one completed run.
type Result struct {
	RunID           string
	AudioPath       string
	SubtitlePath    string
	SourceSeconds   float64
	CleanedSeconds  float64
	SegmentsTotal   int
	SegmentsDropped int
	Cues            int
	Verdicts        []evaluate.Verdict
}

// ReductionPercent reports how much of the source run time was removed.
func (r *Result) ReductionPercent() float64 {
	if r.SourceSeconds <= 0 {
		return 0
	}
	return (r.SourceSeconds - r.CleanedSeconds) / r.SourceSeconds * 100
}

// Pipeline drives one cleaning run through its stages: transcribe,
// evaluate, trim, optionally re-transcribe, build cues, publish.
type Pipeline struct {
	cfg       *config.Config
	engine    *whisper.Service
	evaluator *evaluate.Evaluator
	trimmer   *trim.Trimmer
	store     *runlog.Store
}

// New assembles a pipeline. store may be nil when history is not wanted.
func New(cfg *config.Config, engine *whisper.Service, evaluator *evaluate.Evaluator, trimmer *trim.Trimmer, store *runlog.Store) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		engine:    engine,
		evaluator: evaluator,
		trimmer:   trimmer,
		store:     store,
	}
}

// Run cleans sourcePath and publishes the cleaned audio and subtitle file.
// Outputs appear atomically on success only; a failed or cancelled run
// leaves prior files untouched.
func (p *Pipeline) Run(ctx context.Context, sourcePath, audioOut, subtitleOut string) (*Result, error) {
	runID := strings.Split(uuid.NewString(), "-")[0]
	ctx = services.WithRunID(ctx, runID)
	logger := logging.FromContext(ctx).With("run_id", runID)
	ctx = logging.WithContext(ctx, logger)

	started := time.Now()
	result, err := p.run(ctx, runID, sourcePath, audioOut, subtitleOut)
	p.record(sourcePath, audioOut, subtitleOut, runID, started, result, err)
	if err != nil {
		return nil, err
	}

	logger.Info("run complete",
		"source_seconds", fmt.Sprintf("%.1f", result.SourceSeconds),
		"cleaned_seconds", fmt.Sprintf("%.1f", result.CleanedSeconds),
		"reduction_percent", fmt.Sprintf("%.1f", result.ReductionPercent()),
		"segments_dropped", result.SegmentsDropped,
		"cues", result.Cues)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, runID, sourcePath, audioOut, subtitleOut string) (*Result, error) {
	logger := logging.FromContext(ctx)

	if _, err := os.Stat(sourcePath); err != nil {
		return nil, services.Wrap(nil, "pipeline", "open source", "", err)
	}

	// Concurrent runs against the same output are serialized by a lock
	// file next to the audio output.
	lock := flock.New(audioOut + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(nil, "pipeline", "lock output", "", err)
	}
	if !locked {
		return nil, services.Wrap(nil, "pipeline", "lock output",
			fmt.Sprintf("another run is already writing %s", audioOut), nil)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(audioOut + ".lock")
	}()

	workDir := filepath.Join(p.cfg.Paths.StagingDir, "run-"+runID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, services.Wrap(nil, "pipeline", "create staging", "", err)
	}
	defer os.RemoveAll(workDir)

	extracted := filepath.Join(workDir, "source.wav")
	logger.Info("extracting audio", "source", sourcePath)
	if err := p.engine.ExtractAudio(ctx, sourcePath, extracted); err != nil {
		return nil, err
	}

	duration, err := p.engine.ProbeDuration(ctx, extracted)
	if err != nil {
		return nil, err
	}

	logger.Info("transcribing", "pass", 1, "seconds", fmt.Sprintf("%.1f", duration))
	pass1, err := p.engine.Transcribe(ctx, extracted, workDir)
	if err != nil {
		return nil, err
	}

	conditioned := evaluate.ConditionSegments(pass1, evaluate.ConditionOptions{
		MaxChars:   p.cfg.Quality.MaxSegmentChars,
		GapSeconds: p.cfg.Quality.GapThresholdSeconds,
	})

	verdicts, err := p.evaluator.Evaluate(ctx, conditioned)
	if err != nil {
		return nil, err
	}

	kept, err := p.keptIntervals(verdicts, duration)
	if err != nil {
		return nil, err
	}

	// The cut runs against the source so the published audio keeps its
	// original quality; the 16 kHz extraction exists only for recognition.
	cleaned := filepath.Join(workDir, "cleaned"+outputExt(audioOut))
	if err := p.trimmer.Trim(ctx, sourcePath, kept, cleaned); err != nil {
		return nil, err
	}
	offsets := trim.NewOffsetMap(kept)

	cueSegments, err := p.cueSegments(ctx, cleaned, workDir, verdicts, offsets)
	if err != nil {
		return nil, err
	}

	cues := hrt.BuildCues(cueSegments, hrt.Options{
		MinSeconds:   p.cfg.Cues.MinSeconds,
		MaxSeconds:   p.cfg.Cues.MaxSeconds,
		MergeSilence: p.cfg.Cues.MergeSilenceSeconds,
	})

	subtitleStaged := filepath.Join(workDir, "subtitle.hrt")
	if err := hrt.WriteFile(subtitleStaged, cues); err != nil {
		return nil, services.Wrap(nil, "pipeline", "write subtitle", "", err)
	}

	// Publish last so earlier failures leave no partial output. The
	// subtitle goes first: a cleaned audio without its subtitle is worse
	// than the reverse.
	if err := fileutil.ReplaceFile(subtitleStaged, subtitleOut); err != nil {
		return nil, services.Wrap(nil, "pipeline", "publish subtitle", "", err)
	}
	if err := fileutil.ReplaceFile(cleaned, audioOut); err != nil {
		return nil, services.Wrap(nil, "pipeline", "publish audio", "", err)
	}

	return &Result{
		RunID:           runID,
		AudioPath:       audioOut,
		SubtitlePath:    subtitleOut,
		SourceSeconds:   duration,
		CleanedSeconds:  offsets.CleanedDuration(),
		SegmentsTotal:   len(verdicts),
		SegmentsDropped: len(evaluate.Dropped(verdicts)),
		Cues:            len(cues),
		Verdicts:        verdicts,
	}, nil
}

// keptIntervals turns drop verdicts into the retained spans of the source.
// Regions no verdict covers default to retained.
func (p *Pipeline) keptIntervals(verdicts []evaluate.Verdict, duration float64) ([]trim.Interval, error) {
	var drops []trim.Interval
	for _, v := range verdicts {
		if !v.Keep {
			drops = append(drops, trim.Interval{Start: v.Segment.Start, End: v.Segment.End})
		}
	}
	kept := trim.Complement(trim.MergeClose(drops), duration)
	if len(kept) == 0 {
		return nil, services.Wrap(services.ErrNothingRetained, "pipeline", "compute retained spans",
			"every segment was judged droppable", nil)
	}
	return kept, nil
}

// cueSegments picks the segments the cue builder will see: a fresh pass-2
// transcription of the cleaned audio when enabled, otherwise the kept
// pass-1 segments translated onto the cleaned timeline.
func (p *Pipeline) cueSegments(ctx context.Context, cleanedAudio, workDir string, verdicts []evaluate.Verdict, offsets *trim.OffsetMap) ([]transcript.Segment, error) {
	logger := logging.FromContext(ctx)
	if p.cfg.Output.SecondaryTranscription {
		logger.Info("transcribing", "pass", 2)
		wav := filepath.Join(workDir, "cleaned16k.wav")
		if err := p.engine.ExtractAudio(ctx, cleanedAudio, wav); err != nil {
			return nil, err
		}
		// Pass-2 timestamps are already on the cleaned timeline.
		return p.engine.Transcribe(ctx, wav, workDir)
	}

	var segments []transcript.Segment
	for _, v := range evaluate.Kept(verdicts) {
		segments = append(segments, transcript.Segment{
			Start:      offsets.ToCleaned(v.Segment.Start),
			End:        offsets.ToCleaned(v.Segment.End),
			Text:       v.Segment.Text,
			Confidence: v.Segment.Confidence,
		})
	}
	return segments, nil
}

func (p *Pipeline) record(sourcePath, audioOut, subtitleOut, runID string, started time.Time, result *Result, runErr error) {
	if p.store == nil {
		return
	}
	run := runlog.Run{
		RunID:      runID,
		SourcePath: sourcePath,
		StartedAt:  started.UTC(),
		FinishedAt: time.Now().UTC(),
		Status:     runlog.StatusSucceeded,
	}
	switch {
	case runErr == nil:
		run.AudioPath = audioOut
		run.SubtitlePath = subtitleOut
		run.SourceSeconds = result.SourceSeconds
		run.CleanedSeconds = result.CleanedSeconds
		run.SegmentsTotal = result.SegmentsTotal
		run.SegmentsDropped = result.SegmentsDropped
		run.Cues = result.Cues
	case services.IsCancelled(runErr):
		run.Status = runlog.StatusCancelled
	default:
		run.Status = runlog.StatusFailed
		run.ErrorMessage = runErr.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.store.RecordRun(ctx, run); err != nil {
		logging.FromContext(ctx).Warn("failed to record run history", "error", err)
	}
}

func outputExt(audioOut string) string {
	if ext := filepath.Ext(audioOut); ext != "" {
		return ext
	}
	return ".wav"
}
