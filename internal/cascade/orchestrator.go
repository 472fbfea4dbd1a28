package cascade

import (
	"context"
	"fmt"

	"github.com/address-corrector/app/models"
	"go.uber.org/zap"
)

// Fallback result categories, used as AlternativeResults keys.
const (
	CategoryTown          = "town"
	CategoryNeighbourhood = "neighborhood"
)

// DefaultMinPrimaryResults is the primary result count below which the
// fallback queries are issued.
const DefaultMinPrimaryResults = 2

// Geocoder is the fetch capability the cascade drives. Implementations
// live in internal/geocode.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]models.Place, error)
}

// Resolution is the outcome of one cascade run. Results always holds
// the primary result set regardless of cardinality; AlternativeResults
// supplements it and is nil when no fallback was issued or every
// fallback came back empty.
type Resolution struct {
	Results            []models.Place            `json:"results"`
	AlternativeResults map[string][]models.Place `json:"alternativeResults,omitempty"`
}

// Orchestrator issues the primary geocoding query and, when it
// under-delivers, the narrower fallback queries in fixed priority
// order: town first, then neighbourhood. The fallbacks are independent
// of each other; both run whenever the primary under-delivered and
// both alternatives exist. LocalGovernmentOnly is produced by the
// decomposer but intentionally never consulted here.
type Orchestrator struct {
	minPrimaryResults int
	logger            *zap.Logger
}

// NewOrchestrator creates an Orchestrator. A non-positive threshold
// falls back to DefaultMinPrimaryResults.
func NewOrchestrator(minPrimaryResults int, logger *zap.Logger) *Orchestrator {
	if minPrimaryResults <= 0 {
		minPrimaryResults = DefaultMinPrimaryResults
	}
	return &Orchestrator{
		minPrimaryResults: minPrimaryResults,
		logger:            logger,
	}
}

// Resolve runs the cascade for one formatted address. Any geocode call
// failure is terminal for the request: no retry, no partial-result
// suppression.
func (o *Orchestrator) Resolve(ctx context.Context, formatted models.FormattedAddress, geocoder Geocoder) (*Resolution, error) {
	primary, err := geocoder.Search(ctx, formatted.FormattedQuery)
	if err != nil {
		return nil, fmt.Errorf("primary query %q: %w", formatted.FormattedQuery, err)
	}

	resolution := &Resolution{Results: primary}

	if len(primary) >= o.minPrimaryResults {
		return resolution, nil
	}

	o.logger.Debug("Primary query under-delivered, issuing fallbacks",
		zap.String("query", formatted.FormattedQuery),
		zap.Int("primary_results", len(primary)))

	alternatives := make(map[string][]models.Place)

	if query := formatted.AlternativeQueries.TownOnly; query != "" {
		places, err := geocoder.Search(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("town fallback %q: %w", query, err)
		}
		if len(places) > 0 {
			alternatives[CategoryTown] = places
		}
	}

	if query := formatted.AlternativeQueries.NeighbourhoodOnly; query != "" {
		places, err := geocoder.Search(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("neighbourhood fallback %q: %w", query, err)
		}
		if len(places) > 0 {
			alternatives[CategoryNeighbourhood] = places
		}
	}

	if len(alternatives) > 0 {
		resolution.AlternativeResults = alternatives
	}

	return resolution, nil
}
