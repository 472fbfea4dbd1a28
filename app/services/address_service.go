package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/address-corrector/app/models"
	"github.com/address-corrector/internal/cascade"
	"github.com/address-corrector/internal/decomposer"
	"github.com/address-corrector/internal/geocode"
	"github.com/address-corrector/internal/stats"
	"go.uber.org/zap"
)

// Corrector produces a corrected rendition of a raw address. It never
// fails; unusable model output degrades to an uncorrected result.
type Corrector interface {
	Correct(ctx context.Context, address string) *models.CorrectionResult
}

// AddressService ties correction, decomposition and geocoding together
type AddressService struct {
	corrector    Corrector
	decomposer   *decomposer.Decomposer
	orchestrator *cascade.Orchestrator
	geocoder     cascade.Geocoder
	urls         *geocode.NominatimClient
	cache        ICorrectionCache
	tracker      *stats.Tracker
	logger       *zap.Logger
	startTime    time.Time
}

// FormatOutcome result of correcting and decomposing one address
type FormatOutcome struct {
	Original        string
	Correction      *models.CorrectionResult
	Formatted       models.FormattedAddress
	NominatimURL    string
	AlternativeURLs map[string]string
	CacheHit        bool
}

// SearchOutcome result of correcting, decomposing and geocoding one address
type SearchOutcome struct {
	FormatOutcome
	Resolution *cascade.Resolution
}

// NewAddressService creates the address service
func NewAddressService(
	corrector Corrector,
	dec *decomposer.Decomposer,
	orchestrator *cascade.Orchestrator,
	geocoder cascade.Geocoder,
	urls *geocode.NominatimClient,
	cache ICorrectionCache,
	tracker *stats.Tracker,
	logger *zap.Logger,
) *AddressService {
	return &AddressService{
		corrector:    corrector,
		decomposer:   dec,
		orchestrator: orchestrator,
		geocoder:     geocoder,
		urls:         urls,
		cache:        cache,
		tracker:      tracker,
		logger:       logger,
		startTime:    time.Now(),
	}
}

// FormatAddress corrects an address and decomposes it into components
func (as *AddressService) FormatAddress(ctx context.Context, address string) (*FormatOutcome, error) {
	if strings.TrimSpace(address) == "" {
		return nil, errors.New("address must not be empty")
	}

	correction, cacheHit := as.correctWithCache(ctx, address)
	formatted := as.decomposer.Decompose(correction.CorrectedAddress)

	outcome := &FormatOutcome{
		Original:        address,
		Correction:      correction,
		Formatted:       formatted,
		NominatimURL:    as.urls.QueryURL(formatted.FormattedQuery),
		AlternativeURLs: as.alternativeURLs(formatted.AlternativeQueries),
		CacheHit:        cacheHit,
	}

	as.logger.Info("formatted address",
		zap.String("original", address),
		zap.String("corrected", correction.CorrectedAddress),
		zap.Float64("confidence", correction.Confidence),
		zap.Bool("cache_hit", cacheHit))

	return outcome, nil
}

// SearchAddress corrects an address and resolves it against the geocoder
func (as *AddressService) SearchAddress(ctx context.Context, query string) (*SearchOutcome, error) {
	outcome, err := as.FormatAddress(ctx, query)
	if err != nil {
		return nil, err
	}

	resolution, err := as.orchestrator.Resolve(ctx, outcome.Formatted, as.geocoder)
	if err != nil {
		return nil, err
	}

	as.logger.Info("resolved address",
		zap.String("query", outcome.Formatted.FormattedQuery),
		zap.Int("results", len(resolution.Results)),
		zap.Int("alternative_categories", len(resolution.AlternativeResults)))

	return &SearchOutcome{
		FormatOutcome: *outcome,
		Resolution:    resolution,
	}, nil
}

// Stats returns lifetime counters and the recent correction window
func (as *AddressService) Stats() (models.CorrectionCounters, []models.CorrectionRecord) {
	return as.tracker.Snapshot()
}

// Uptime returns how long the service has been running
func (as *AddressService) Uptime() time.Duration {
	return time.Since(as.startTime)
}

// CacheStats reports the correction cache statistics
func (as *AddressService) CacheStats(ctx context.Context) (*CacheStats, error) {
	if as.cache == nil {
		return &CacheStats{}, nil
	}
	return as.cache.GetStats(ctx)
}

// correctWithCache returns a cached correction when available. Only
// non-degraded corrections are cached so a transient model failure
// cannot pin an uncorrected result.
func (as *AddressService) correctWithCache(ctx context.Context, address string) (*models.CorrectionResult, bool) {
	if as.cache == nil {
		return as.corrector.Correct(ctx, address), false
	}

	key := Fingerprint(address)

	cached, found, err := as.cache.Get(ctx, key)
	if err != nil {
		as.logger.Warn("correction cache lookup failed", zap.Error(err))
	} else if found {
		return cached, true
	}

	correction := as.corrector.Correct(ctx, address)

	if !correction.Degraded() {
		if err := as.cache.Set(ctx, key, correction); err != nil {
			as.logger.Warn("correction cache store failed", zap.Error(err))
		}
	}

	return correction, false
}

func (as *AddressService) alternativeURLs(alt models.AlternativeQueries) map[string]string {
	urls := make(map[string]string)
	if alt.NeighbourhoodOnly != "" {
		urls["neighbourhoodOnly"] = as.urls.QueryURL(alt.NeighbourhoodOnly)
	}
	if alt.TownOnly != "" {
		urls["townOnly"] = as.urls.QueryURL(alt.TownOnly)
	}
	if alt.LocalGovernmentOnly != "" {
		urls["localGovernmentOnly"] = as.urls.QueryURL(alt.LocalGovernmentOnly)
	}
	if len(urls) == 0 {
		return nil
	}
	return urls
}
