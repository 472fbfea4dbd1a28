package stats

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/address-corrector/app/models"
)

const (
	// DefaultHistoryLimit is how many correction records are retained.
	DefaultHistoryLimit = 100
	// DefaultRecentWindow is how many records a snapshot exposes.
	DefaultRecentWindow = 10
)

// Tracker holds the process-wide correction counters and a bounded FIFO
// history of processed addresses. It is the only mutable state shared
// across in-flight requests: counters are atomic and the history is
// guarded by a mutex, so concurrent corrections never lose increments
// or interleave evictions.
type Tracker struct {
	spellingCorrected      atomic.Int64
	missingComponentsAdded atomic.Int64
	totalProcessed         atomic.Int64

	mu           sync.Mutex
	history      []models.CorrectionRecord
	historyLimit int
	recentWindow int
}

// NewTracker creates a Tracker with the given history bound and
// snapshot window. Non-positive arguments fall back to the defaults.
func NewTracker(historyLimit, recentWindow int) *Tracker {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	if recentWindow <= 0 {
		recentWindow = DefaultRecentWindow
	}
	return &Tracker{
		history:      make([]models.CorrectionRecord, 0, historyLimit),
		historyLimit: historyLimit,
		recentWindow: recentWindow,
	}
}

// Record registers one completed correction call. TotalProcessed always
// increments; SpellingCorrected only when the model reported at least
// one correction; MissingComponentsAdded when the corrected string
// carries more comma-separated components than the original. The
// history keeps the most recent entries, oldest dropped first.
func (t *Tracker) Record(original, corrected string, corrections []string) {
	t.totalProcessed.Add(1)
	if len(corrections) > 0 {
		t.spellingCorrected.Add(1)
	}
	if segmentCount(corrected) > segmentCount(original) {
		t.missingComponentsAdded.Add(1)
	}

	record := models.CorrectionRecord{
		Original:  original,
		Corrected: corrected,
		Timestamp: time.Now(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.history = append(t.history, record)
	if len(t.history) > t.historyLimit {
		t.history = t.history[len(t.history)-t.historyLimit:]
	}
}

// Snapshot returns the current counters and the most recent history
// entries (a bounded view, not the full history), oldest first.
func (t *Tracker) Snapshot() (models.CorrectionCounters, []models.CorrectionRecord) {
	counters := models.CorrectionCounters{
		SpellingCorrected:      t.spellingCorrected.Load(),
		MissingComponentsAdded: t.missingComponentsAdded.Load(),
		TotalProcessed:         t.totalProcessed.Load(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	start := 0
	if len(t.history) > t.recentWindow {
		start = len(t.history) - t.recentWindow
	}
	recent := make([]models.CorrectionRecord, len(t.history)-start)
	copy(recent, t.history[start:])

	return counters, recent
}

// History returns a copy of the full bounded history, oldest first.
func (t *Tracker) History() []models.CorrectionRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]models.CorrectionRecord, len(t.history))
	copy(out, t.history)
	return out
}

// segmentCount counts non-empty comma-separated components.
func segmentCount(s string) int {
	count := 0
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) != "" {
			count++
		}
	}
	return count
}
