package corrector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/address-corrector/internal/stats"
	"go.uber.org/zap"
)

func testConfig() Config {
	return Config{
		Timeout:     time.Second,
		MaxAttempts: 1,
		RetryDelay:  time.Millisecond,
	}
}

func TestCorrect_HappyPath(t *testing.T) {
	tracker := stats.NewTracker(0, 0)
	complete := func(_ context.Context, _ string) (string, error) {
		return `{"correctedAddress": "allen avenue, ikeja, lagos", "corrections": ["alen -> allen"], "confidence": 0.92}`, nil
	}

	c := newCorrectorWithCompleter(testConfig(), complete, tracker, zap.NewNop())
	got := c.Correct(context.Background(), "alen avenue, ikeja, lagos")

	if got.CorrectedAddress != "allen avenue, ikeja, lagos" {
		t.Errorf("correctedAddress = %q", got.CorrectedAddress)
	}
	if len(got.Corrections) != 1 || got.Corrections[0] != "alen -> allen" {
		t.Errorf("corrections = %v", got.Corrections)
	}
	if got.Confidence != 0.92 {
		t.Errorf("confidence = %v, want 0.92", got.Confidence)
	}

	counters, _ := tracker.Snapshot()
	if counters.TotalProcessed != 1 || counters.SpellingCorrected != 1 {
		t.Errorf("counters = %+v, want totalProcessed=1 spellingCorrected=1", counters)
	}
}

func TestCorrect_TransportFailureDegrades(t *testing.T) {
	tracker := stats.NewTracker(0, 0)
	complete := func(_ context.Context, _ string) (string, error) {
		return "", errors.New("connection reset")
	}

	c := newCorrectorWithCompleter(testConfig(), complete, tracker, zap.NewNop())
	got := c.Correct(context.Background(), "alen avenue")

	if got.CorrectedAddress != "alen avenue" {
		t.Errorf("correctedAddress = %q, want original input", got.CorrectedAddress)
	}
	if len(got.Corrections) != 0 {
		t.Errorf("corrections = %v, want empty", got.Corrections)
	}
	if got.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", got.Confidence)
	}
	if !got.Degraded() {
		t.Error("result should report degraded")
	}

	// A degraded call still counts as processed but not as corrected.
	counters, _ := tracker.Snapshot()
	if counters.TotalProcessed != 1 || counters.SpellingCorrected != 0 {
		t.Errorf("counters = %+v", counters)
	}
}

func TestCorrect_UnparseableOutputDegrades(t *testing.T) {
	tracker := stats.NewTracker(0, 0)
	complete := func(_ context.Context, _ string) (string, error) {
		return "Sorry, I can't help with that.", nil
	}

	c := newCorrectorWithCompleter(testConfig(), complete, tracker, zap.NewNop())
	got := c.Correct(context.Background(), "broad street")

	if got.CorrectedAddress != "broad street" || got.Confidence != 0 || len(got.Corrections) != 0 {
		t.Errorf("got %+v, want degraded fallback", got)
	}
}

func TestCorrect_RetriesTransientFailure(t *testing.T) {
	tracker := stats.NewTracker(0, 0)
	calls := 0
	complete := func(_ context.Context, _ string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("temporary failure")
		}
		return `{"correctedAddress": "broad street, lagos", "corrections": [], "confidence": 1}`, nil
	}

	cfg := testConfig()
	cfg.MaxAttempts = 2
	c := newCorrectorWithCompleter(cfg, complete, tracker, zap.NewNop())
	got := c.Correct(context.Background(), "broad street, lagos")

	if calls != 2 {
		t.Errorf("completion calls = %d, want 2", calls)
	}
	if got.Confidence != 1 {
		t.Errorf("confidence = %v, want 1 after successful retry", got.Confidence)
	}
}

func TestCorrect_ConfidenceEstimatedWhenOmitted(t *testing.T) {
	tracker := stats.NewTracker(0, 0)
	complete := func(_ context.Context, _ string) (string, error) {
		return `{"correctedAddress": "allen avenue, ikeja", "corrections": ["alen -> allen"]}`, nil
	}

	c := newCorrectorWithCompleter(testConfig(), complete, tracker, zap.NewNop())
	got := c.Correct(context.Background(), "alen avenue, ikeja")

	// A one-letter fix on a near-identical string should score high but
	// is an estimate, not the model's own confidence.
	if got.Confidence <= 0.8 || got.Confidence > 1 {
		t.Errorf("estimated confidence = %v, want in (0.8, 1]", got.Confidence)
	}
}

func TestCorrect_IdenticalStringsEstimateFullConfidence(t *testing.T) {
	tracker := stats.NewTracker(0, 0)
	complete := func(_ context.Context, _ string) (string, error) {
		return `{"correctedAddress": "Broad Street", "corrections": []}`, nil
	}

	c := newCorrectorWithCompleter(testConfig(), complete, tracker, zap.NewNop())
	got := c.Correct(context.Background(), "broad street")

	if got.Confidence != 1 {
		t.Errorf("confidence = %v, want 1 for case-only difference", got.Confidence)
	}
}

func TestCorrect_ContextCancellation(t *testing.T) {
	tracker := stats.NewTracker(0, 0)
	complete := func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newCorrectorWithCompleter(testConfig(), complete, tracker, zap.NewNop())
	got := c.Correct(ctx, "allen avenue")

	if !got.Degraded() {
		t.Errorf("got %+v, want degraded fallback on cancelled context", got)
	}
}
