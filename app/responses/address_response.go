package responses

import (
	"github.com/address-corrector/app/models"
)

// FormatAddressResponse response for single address correction
type FormatAddressResponse struct {
	Original        string                  `json:"original"`                  // input as received
	Corrected       string                  `json:"corrected"`                 // corrected address text
	Corrections     []string                `json:"corrections"`               // changes the corrector made
	Confidence      float64                 `json:"confidence"`                // correction confidence 0..1
	Formatted       models.FormattedAddress `json:"formatted"`                 // decomposed components
	NominatimURL    string                  `json:"nominatimUrl"`              // geocode URL for the primary query
	AlternativeURLs map[string]string       `json:"alternativeUrls,omitempty"` // geocode URLs for fallback queries
	CacheHit        bool                    `json:"cacheHit"`                  // correction served from cache
}

// SearchAddressResponse response for correct-and-geocode search
type SearchAddressResponse struct {
	Original           string                    `json:"original"`
	Corrected          string                    `json:"corrected"`
	Corrections        []string                  `json:"corrections"`
	Confidence         float64                   `json:"confidence"`
	Formatted          models.FormattedAddress   `json:"formatted"`
	Results            []models.Place            `json:"results"`                      // primary query hits
	AlternativeResults map[string][]models.Place `json:"alternativeResults,omitempty"` // fallback hits by category
}

// StatsResponse response for correction statistics
type StatsResponse struct {
	Stats           models.CorrectionCounters `json:"stats"`           // lifetime counters
	RecentAddresses []models.CorrectionRecord `json:"recentAddresses"` // most recent corrections, oldest first
}

// SeedGazetteerResponse response for gazetteer seeding
type SeedGazetteerResponse struct {
	Seeded  int    `json:"seeded"`  // documents submitted to the index
	Message string `json:"message"` // status text
}

// ErrorResponse error envelope
type ErrorResponse struct {
	Error     string `json:"error"`                // error code
	Message   string `json:"message"`              // error detail
	Timestamp string `json:"timestamp"`            // when the error occurred
	RequestID string `json:"request_id,omitempty"` // request id
}

// HealthCheckResponse health probe response
type HealthCheckResponse struct {
	Status    string            `json:"status"`    // overall status
	Timestamp string            `json:"timestamp"` // check time
	Uptime    string            `json:"uptime"`    // process uptime
	Version   string            `json:"version"`   // build version
	Services  map[string]string `json:"services"`  // per-dependency status
}
