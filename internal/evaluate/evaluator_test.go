package evaluate_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"retake/internal/evaluate"
	"retake/internal/services"
	"retake/internal/services/ai"
	"retake/internal/transcript"
)

// scriptedClient returns canned replies (or errors) in call order.
type scriptedClient struct {
	calls   atomic.Int64
	replies []scriptedReply
}

type scriptedReply struct {
	content string
	err     error
}

func (c *scriptedClient) Evaluate(ctx context.Context, req ai.Request) (*ai.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := int(c.calls.Add(1)) - 1
	if n >= len(c.replies) {
		n = len(c.replies) - 1
	}
	reply := c.replies[n]
	if reply.err != nil {
		return nil, reply.err
	}
	return &ai.Response{Content: reply.content}, nil
}

func (c *scriptedClient) TestConnection(ctx context.Context) ai.Health { return ai.Health{} }
func (c *scriptedClient) Dialect() string                              { return "scripted" }

func fastOptions() evaluate.Options {
	return evaluate.Options{
		Workers:       1,
		RetryAttempts: 3,
		RetryBackoff:  time.Millisecond,
	}
}

func TestEvaluateOrdersVerdictsBySegment(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{
		{content: `{"keep": true, "reason": "fine", "score": 0.9}`},
		{content: `{"keep": false, "reason": "repeated take", "score": 0.8}`},
	}}
	segments := []transcript.Segment{
		{Start: 0, End: 2, Text: "第一次说的", Confidence: -1},
		{Start: 2, End: 4, Text: "第一次说的，完整版", Confidence: -1},
	}
	verdicts, err := evaluate.New(client, fastOptions()).Evaluate(context.Background(), segments)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(verdicts) != 2 {
		t.Fatalf("expected 2 verdicts, got %d", len(verdicts))
	}
	if !verdicts[0].Keep || verdicts[1].Keep {
		t.Errorf("verdicts = %+v", verdicts)
	}
	if verdicts[1].Reason != "repeated take" {
		t.Errorf("reason = %q", verdicts[1].Reason)
	}
	if verdicts[0].Index != 0 || verdicts[1].Index != 1 {
		t.Errorf("indices out of order: %d, %d", verdicts[0].Index, verdicts[1].Index)
	}
}

func TestEvaluateRetriesThenSucceeds(t *testing.T) {
	unavailable := services.Wrap(services.ErrEvaluationUnavailable, "ai", "send request", "boom", nil)
	client := &scriptedClient{replies: []scriptedReply{
		{err: unavailable},
		{content: `{"keep": false, "reason": "half sentence", "score": 0.7}`},
	}}
	segments := []transcript.Segment{{Start: 0, End: 2, Text: "然后我们就", Confidence: -1}}
	verdicts, err := evaluate.New(client, fastOptions()).Evaluate(context.Background(), segments)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if verdicts[0].Keep {
		t.Fatalf("retry should surface the backend verdict, got %+v", verdicts[0])
	}
	if client.calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", client.calls.Load())
	}
}

func TestEvaluateFailsOpenWhenBackendDown(t *testing.T) {
	unavailable := services.Wrap(services.ErrEvaluationUnavailable, "ai", "send request", "down", nil)
	client := &scriptedClient{replies: []scriptedReply{{err: unavailable}}}
	segments := []transcript.Segment{{Start: 0, End: 2, Text: "内容", Confidence: -1}}
	verdicts, err := evaluate.New(client, fastOptions()).Evaluate(context.Background(), segments)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !verdicts[0].Keep {
		t.Fatal("unreachable backend must not drop segments")
	}
	if !strings.Contains(verdicts[0].Reason, "evaluation unavailable") {
		t.Errorf("reason = %q", verdicts[0].Reason)
	}
	if client.calls.Load() != 3 {
		t.Errorf("expected all retry attempts, got %d", client.calls.Load())
	}
}

func TestEvaluateFailsOpenOnGarbageReply(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{{content: "sure, I'll keep it!"}}}
	segments := []transcript.Segment{{Start: 0, End: 2, Text: "内容", Confidence: -1}}
	verdicts, err := evaluate.New(client, fastOptions()).Evaluate(context.Background(), segments)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !verdicts[0].Keep {
		t.Fatal("undecodable reply must not drop the segment")
	}
}

func TestEvaluateConfidenceShortCircuit(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{
		{content: `{"keep": true, "reason": "", "score": 1}`},
	}}
	opts := fastOptions()
	opts.ConfidenceThreshold = 0.5
	segments := []transcript.Segment{
		{Start: 0, End: 2, Text: "模糊", Confidence: 0.2},
		{Start: 2, End: 4, Text: "清楚", Confidence: 0.9},
		{Start: 4, End: 6, Text: "未知", Confidence: -1},
	}
	verdicts, err := evaluate.New(client, opts).Evaluate(context.Background(), segments)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if verdicts[0].Keep {
		t.Error("low-confidence segment should drop without a backend call")
	}
	if !verdicts[1].Keep || !verdicts[2].Keep {
		t.Errorf("verdicts = %+v", verdicts)
	}
	if client.calls.Load() != 2 {
		t.Errorf("expected backend calls only for segments 2 and 3, got %d", client.calls.Load())
	}
}

func TestEvaluateDropsEmptySegmentsLocally(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{
		{content: `{"keep": true, "reason": "", "score": 1}`},
	}}
	segments := []transcript.Segment{{Start: 0, End: 2, Text: "   ", Confidence: -1}}
	verdicts, err := evaluate.New(client, fastOptions()).Evaluate(context.Background(), segments)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if verdicts[0].Keep {
		t.Error("empty segment should drop")
	}
	if client.calls.Load() != 0 {
		t.Errorf("empty segment should not reach the backend, got %d calls", client.calls.Load())
	}
}

func TestEvaluateCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := &scriptedClient{replies: []scriptedReply{
		{content: `{"keep": true, "reason": "", "score": 1}`},
	}}
	segments := []transcript.Segment{{Start: 0, End: 2, Text: "x", Confidence: -1}}
	_, err := evaluate.New(client, fastOptions()).Evaluate(ctx, segments)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDecodeModelJSON(t *testing.T) {
	cases := []string{
		`{"keep": false, "reason": "noise", "score": 0.6}`,
		"```json\n{\"keep\": false, \"reason\": \"noise\", \"score\": 0.6}\n```",
		"Here is my verdict: {\"keep\": false, \"reason\": \"noise\", \"score\": 0.6} hope that helps",
	}
	for _, content := range cases {
		var decoded struct {
			Keep   *bool   `json:"keep"`
			Reason string  `json:"reason"`
			Score  float64 `json:"score"`
		}
		if err := evaluate.DecodeModelJSON(content, &decoded); err != nil {
			t.Errorf("DecodeModelJSON(%q): %v", content, err)
			continue
		}
		if decoded.Keep == nil || *decoded.Keep || decoded.Reason != "noise" {
			t.Errorf("DecodeModelJSON(%q) = %+v", content, decoded)
		}
	}
	var dummy map[string]any
	if err := evaluate.DecodeModelJSON("no json here", &dummy); err == nil {
		t.Error("prose without JSON should fail")
	}
}
