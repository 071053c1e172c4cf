package evaluate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"retake/internal/logging"
	"retake/internal/services/ai"
	"retake/internal/transcript"
)

// Options tune how the evaluator drives the backend.
type Options struct {
	// Workers bounds concurrent backend calls.
	Workers int
	// RetryAttempts is the total number of tries per segment.
	RetryAttempts int
	// RetryBackoff separates attempts.
	RetryBackoff time.Duration
	// Timeout bounds each individual backend call.
	Timeout time.Duration
	// ConfidenceThreshold drops segments the engine itself scored below it,
	// skipping the backend. Segments with unknown confidence are unaffected.
	ConfidenceThreshold float64
	// SystemPrompt overrides DefaultSystemPrompt when non-empty.
	SystemPrompt string
}

// Evaluator asks the AI backend whether each segment should survive into
// the final cut. Backend trouble never fails a run: segments the backend
// could not judge are kept.
type Evaluator struct {
	client ai.Client
	opts   Options
}

func New(client ai.Client, opts Options) *Evaluator {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = 3
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 2 * time.Second
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = DefaultSystemPrompt
	}
	return &Evaluator{client: client, opts: opts}
}

// Evaluate produces one verdict per segment, in segment order. It returns
// an error only when ctx is cancelled.
func (e *Evaluator) Evaluate(ctx context.Context, segments []transcript.Segment) ([]Verdict, error) {
	logger := logging.FromContext(ctx)
	verdicts := make([]Verdict, len(segments))

	sem := make(chan struct{}, e.opts.Workers)
	var wg sync.WaitGroup
	for i := range segments {
		if err := ctx.Err(); err != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			verdicts[i] = e.judge(ctx, segments, i)
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dropped := len(Dropped(verdicts))
	logger.Info("evaluation complete",
		"segments", len(segments),
		"dropped", dropped,
		"backend", e.client.Dialect())
	return verdicts, nil
}

func (e *Evaluator) judge(ctx context.Context, segments []transcript.Segment, i int) Verdict {
	logger := logging.FromContext(ctx)
	seg := segments[i]
	verdict := Verdict{Index: i, Segment: seg, Keep: true, Score: -1}

	if seg.IsEmpty() {
		verdict.Keep = false
		verdict.Reason = "no transcribed text"
		return verdict
	}
	if seg.Confidence >= 0 && seg.Confidence < e.opts.ConfidenceThreshold {
		verdict.Keep = false
		verdict.Reason = fmt.Sprintf("engine confidence %.2f below threshold %.2f", seg.Confidence, e.opts.ConfidenceThreshold)
		return verdict
	}

	req := ai.Request{
		SystemPrompt: e.opts.SystemPrompt,
		UserPrompt:   buildUserPrompt(segments, i),
	}

	var lastErr error
	for attempt := 1; attempt <= e.opts.RetryAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return verdict
			case <-time.After(e.opts.RetryBackoff):
			}
		}

		decision, err := e.callOnce(ctx, req)
		if err == nil {
			verdict.Keep = *decision.Keep
			verdict.Reason = decision.Reason
			verdict.Score = decision.Score
			return verdict
		}
		if ctx.Err() != nil {
			// Run cancellation, as opposed to a per-call timeout.
			return verdict
		}
		lastErr = err
		logger.Warn("segment evaluation attempt failed",
			"segment", i+1,
			"attempt", attempt,
			"error", err)
	}

	// Fail open: an unreachable or incoherent backend must not cut audio.
	verdict.Keep = true
	verdict.Reason = fmt.Sprintf("evaluation unavailable, segment kept: %v", lastErr)
	verdict.Score = -1
	return verdict
}

func (e *Evaluator) callOnce(ctx context.Context, req ai.Request) (*modelVerdict, error) {
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	resp, err := e.client.Evaluate(ctx, req)
	if err != nil {
		return nil, err
	}
	var decision modelVerdict
	if err := DecodeModelJSON(resp.Content, &decision); err != nil {
		return nil, err
	}
	if decision.Keep == nil {
		return nil, fmt.Errorf("reply lacks keep field: %q", truncateReply(resp.Content))
	}
	return &decision, nil
}
