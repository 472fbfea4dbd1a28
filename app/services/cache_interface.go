package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/address-corrector/app/models"
)

// CacheStats cache statistics
type CacheStats struct {
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

// ICorrectionCache interface over the correction result cache tiers
type ICorrectionCache interface {
	// Get fetches a cached correction
	Get(ctx context.Context, key string) (*models.CorrectionResult, bool, error)

	// Set stores a correction
	Set(ctx context.Context, key string, result *models.CorrectionResult) error

	// Delete removes a correction
	Delete(ctx context.Context, key string) error

	// Clear removes all cached corrections
	Clear(ctx context.Context) error

	// GetStats reports hit/miss counters
	GetStats(ctx context.Context) (*CacheStats, error)

	// Exists checks whether a key is present
	Exists(ctx context.Context, key string) (bool, error)

	// Close releases the underlying connection (if any)
	Close() error
}

// Fingerprint derives the cache key for a raw address. Keys are
// case-insensitive and whitespace-insensitive so trivially different
// spellings of the same input share a cache slot.
func Fingerprint(address string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(address)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
