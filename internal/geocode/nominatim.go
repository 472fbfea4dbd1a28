package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/address-corrector/app/models"
	"go.uber.org/zap"
)

// Error classes surfaced to the request boundary so callers can tell
// bad input from upstream failure.
var (
	// ErrTransport marks the provider being unreachable or answering
	// with a non-success status.
	ErrTransport = errors.New("geocode transport failure")
	// ErrParse marks a response body that is not the JSON the provider
	// contract promises.
	ErrParse = errors.New("geocode response parse failure")
)

// DefaultBaseURL is the public Nominatim search endpoint.
const DefaultBaseURL = "https://nominatim.openstreetmap.org/search"

const defaultUserAgent = "address-corrector/1.0"

// NominatimConfig configures the HTTP geocoding client.
type NominatimConfig struct {
	BaseURL    string
	UserAgent  string // Nominatim usage policy requires one
	Timeout    time.Duration
	HTTPClient *http.Client // optional (tests)
}

// NominatimClient issues free-text search queries against a Nominatim
// endpoint. It decides nothing about which queries to ask; that is the
// cascade's job.
type NominatimClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *zap.Logger
}

// NewNominatimClient creates a client with sane defaults filled in.
func NewNominatimClient(cfg NominatimConfig, logger *zap.Logger) *NominatimClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &NominatimClient{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    client,
		logger:    logger,
	}
}

// QueryURL builds the provider URL for a free-text query: the query is
// URL-encoded into the q parameter alongside the fixed format=json.
// Exposed so handlers can return provider URLs without issuing calls.
func (nc *NominatimClient) QueryURL(query string) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	return nc.baseURL + "?" + params.Encode()
}

// Search issues one geocoding query. Failures are classified: transport
// problems (unreachable, non-2xx) wrap ErrTransport, undecodable bodies
// wrap ErrParse with a best-effort diagnostic.
func (nc *NominatimClient) Search(ctx context.Context, query string) ([]models.Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nc.QueryURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrTransport, err)
	}
	req.Header.Set("User-Agent", nc.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := nc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("%w: status %d: %s", ErrTransport, resp.StatusCode, string(body))
	}

	var places []models.Place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	nc.logger.Debug("Nominatim search completed",
		zap.String("query", query),
		zap.Int("results", len(places)))

	return places, nil
}
