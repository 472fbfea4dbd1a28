package geocode

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/address-corrector/app/models"
	"github.com/agnivade/levenshtein"
	"github.com/meilisearch/meilisearch-go"
	"github.com/mozillazg/go-unidecode"
	"github.com/xrash/smetrics"
	"go.uber.org/zap"
)

// GazetteerConfig configures the local Meilisearch-backed provider.
type GazetteerConfig struct {
	Host          string
	APIKey        string
	IndexName     string
	Timeout       time.Duration
	MaxCandidates int
	MinScore      float64
}

// PlaceDoc is the document shape stored in the gazetteer index.
type PlaceDoc struct {
	PlaceID     int64    `json:"place_id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	Type        string   `json:"type"`
	Aliases     []string `json:"aliases,omitempty"`
}

// Gazetteer is a geocoding provider backed by a local Meilisearch
// index of seeded places. It implements the same Search contract as
// the Nominatim client so the cascade cannot tell them apart, which
// gives deployments an offline option when the public provider is
// unavailable or rate-limited.
type Gazetteer struct {
	client    meilisearch.ServiceManager
	indexName string
	limit     int
	minScore  float64
	logger    *zap.Logger
}

// NewGazetteer connects to Meilisearch and verifies it is healthy.
func NewGazetteer(cfg GazetteerConfig, logger *zap.Logger) (*Gazetteer, error) {
	if cfg.IndexName == "" {
		cfg.IndexName = "places"
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = 20
	}
	if cfg.MinScore <= 0 {
		cfg.MinScore = 0.55
	}

	client := meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey))
	if _, err := client.Health(); err != nil {
		return nil, fmt.Errorf("cannot reach Meilisearch: %w", err)
	}

	return &Gazetteer{
		client:    client,
		indexName: cfg.IndexName,
		limit:     cfg.MaxCandidates,
		minScore:  cfg.MinScore,
		logger:    logger,
	}, nil
}

// Search queries the gazetteer index and rescores hits against the
// query with Jaro-Winkler similarity, dropping weak candidates.
func (g *Gazetteer) Search(ctx context.Context, query string) ([]models.Place, error) {
	// The meilisearch client offers no context hook, so settle the
	// cancelled case before issuing the call.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	index := g.client.Index(g.indexName)

	result, err := index.Search(query, &meilisearch.SearchRequest{
		Limit: int64(g.limit),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: meilisearch: %v", ErrTransport, err)
	}

	normalizedQuery := normalizePlaceName(query)

	type scored struct {
		place models.Place
		score float64
	}
	candidates := make([]scored, 0, len(result.Hits))

	for _, hit := range result.Hits {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}

		doc := parsePlaceHit(hitMap)
		score := g.scoreCandidate(normalizedQuery, doc)
		if score < g.minScore {
			continue
		}

		candidates = append(candidates, scored{
			place: models.Place{
				PlaceID:     doc.PlaceID,
				DisplayName: doc.DisplayName,
				Lat:         doc.Lat,
				Lon:         doc.Lon,
				Type:        doc.Type,
				Importance:  score,
			},
			score: score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	places := make([]models.Place, 0, len(candidates))
	for _, c := range candidates {
		places = append(places, c.place)
	}

	g.logger.Debug("Gazetteer search completed",
		zap.String("query", query),
		zap.Int("hits", len(result.Hits)),
		zap.Int("results", len(places)))

	return places, nil
}

// Seed upserts place documents into the index and configures the
// searchable attributes on first use.
func (g *Gazetteer) Seed(ctx context.Context, docs []PlaceDoc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	index := g.client.Index(g.indexName)

	if _, err := index.UpdateSettings(&meilisearch.Settings{
		SearchableAttributes: []string{"name", "display_name", "aliases"},
		FilterableAttributes: []string{"type"},
		RankingRules: []string{
			"words",
			"typo",
			"proximity",
			"attribute",
			"exactness",
		},
	}); err != nil {
		return fmt.Errorf("updating index settings: %w", err)
	}

	if _, err := index.AddDocuments(docs, "place_id"); err != nil {
		return fmt.Errorf("adding documents: %w", err)
	}

	g.logger.Info("Seeded gazetteer index",
		zap.String("index", g.indexName),
		zap.Int("documents", len(docs)))

	return nil
}

// scoreCandidate matches the query against the candidate name and its
// aliases, keeping the best similarity. Levenshtein distance guards
// against Jaro-Winkler's generosity on short strings.
func (g *Gazetteer) scoreCandidate(normalizedQuery string, doc PlaceDoc) float64 {
	names := append([]string{doc.Name, doc.DisplayName}, doc.Aliases...)

	best := 0.0
	for _, name := range names {
		if name == "" {
			continue
		}
		candidate := normalizePlaceName(name)
		jw := smetrics.JaroWinkler(normalizedQuery, candidate, 0.7, 4)

		maxLen := len(normalizedQuery)
		if len(candidate) > maxLen {
			maxLen = len(candidate)
		}
		lev := 0.0
		if maxLen > 0 {
			lev = 1 - float64(levenshtein.ComputeDistance(normalizedQuery, candidate))/float64(maxLen)
			if lev < 0 {
				lev = 0
			}
		}

		if score := 0.7*jw + 0.3*lev; score > best {
			best = score
		}
	}
	return best
}

func normalizePlaceName(s string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(s)))
}

func parsePlaceHit(hit map[string]interface{}) PlaceDoc {
	doc := PlaceDoc{}

	if id, ok := hit["place_id"].(float64); ok {
		doc.PlaceID = int64(id)
	}
	if name, ok := hit["name"].(string); ok {
		doc.Name = name
	}
	if displayName, ok := hit["display_name"].(string); ok {
		doc.DisplayName = displayName
	}
	if lat, ok := hit["lat"].(string); ok {
		doc.Lat = lat
	}
	if lon, ok := hit["lon"].(string); ok {
		doc.Lon = lon
	}
	if placeType, ok := hit["type"].(string); ok {
		doc.Type = placeType
	}
	if aliasesRaw, ok := hit["aliases"].([]interface{}); ok {
		for _, alias := range aliasesRaw {
			if aliasStr, ok := alias.(string); ok {
				doc.Aliases = append(doc.Aliases, aliasStr)
			}
		}
	}

	return doc
}
