package models

import "time"

// CorrectionResult is the output of one correction call against the
// language model. Confidence 0 together with an empty Corrections list
// means the adapter degraded to the raw input, not that the model was
// confident nothing needed fixing.
type CorrectionResult struct {
	CorrectedAddress string   `json:"correctedAddress"`
	Corrections      []string `json:"corrections"`
	Confidence       float64  `json:"confidence"`
}

// Degraded reports whether the result is the adapter's safe fallback.
func (cr *CorrectionResult) Degraded() bool {
	return cr.Confidence == 0 && len(cr.Corrections) == 0
}

// AlternativeQueries holds the single-component fallback queries derived
// from a decomposed address. A field is empty when the component was not
// assigned during decomposition.
type AlternativeQueries struct {
	NeighbourhoodOnly   string `json:"neighbourhoodOnly,omitempty"`
	TownOnly            string `json:"townOnly,omitempty"`
	LocalGovernmentOnly string `json:"localGovernmentOnly,omitempty"`
}

// FormattedAddress is the structured decomposition of a corrected
// address string. Components are assigned positionally; FormattedQuery
// is derived and contains only the assigned components in the fixed
// order street, neighbourhood, town, localGovernment, state.
type FormattedAddress struct {
	Street          string `json:"street,omitempty"`
	Neighbourhood   string `json:"neighbourhood,omitempty"`
	Town            string `json:"town,omitempty"`
	LocalGovernment string `json:"localGovernment,omitempty"`
	State           string `json:"state,omitempty"`

	FormattedQuery     string             `json:"formattedQuery"`
	AlternativeQueries AlternativeQueries `json:"alternativeQueries"`
}

// Place is a single match returned by a geocoding provider. Only the
// result count matters to the cascade; the record content is passed
// through to the caller untouched.
type Place struct {
	PlaceID     int64   `json:"place_id,omitempty"`
	DisplayName string  `json:"display_name"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Type        string  `json:"type,omitempty"`
	Class       string  `json:"class,omitempty"`
	Importance  float64 `json:"importance,omitempty"`
}

// CorrectionRecord is one entry in the rolling correction history.
type CorrectionRecord struct {
	Original  string    `json:"original"`
	Corrected string    `json:"corrected"`
	Timestamp time.Time `json:"timestamp"`
}

// CorrectionCounters are the process-wide aggregate counters exposed by
// the stats endpoint.
type CorrectionCounters struct {
	SpellingCorrected      int64 `json:"spellingCorrected"`
	MissingComponentsAdded int64 `json:"missingComponentsAdded"`
	TotalProcessed         int64 `json:"totalProcessed"`
}
