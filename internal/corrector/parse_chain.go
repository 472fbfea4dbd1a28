package corrector

import (
	"encoding/json"
	"strings"
)

// correctionPayload mirrors the JSON contract the model is instructed
// to return. Confidence is a pointer so an omitted field can be told
// apart from an explicit zero.
type correctionPayload struct {
	CorrectedAddress string   `json:"correctedAddress"`
	Corrections      []string `json:"corrections"`
	Confidence       *float64 `json:"confidence"`
}

// parseStrategy attempts one decoding of raw model output. Strategies
// are total: they report failure instead of panicking or propagating
// decode errors.
type parseStrategy func(raw string) (*correctionPayload, bool)

// parseModelOutput runs the ordered strategy chain with early exit on
// the first success: direct structural parse, then escape-artifact
// stripping, then brace-substring extraction.
func parseModelOutput(raw string) (*correctionPayload, bool) {
	for _, strategy := range []parseStrategy{parseDirect, parseStripped, parseEmbedded} {
		if payload, ok := strategy(raw); ok {
			return payload, true
		}
	}
	return nil, false
}

// parseDirect handles output that is already a JSON object, or a JSON
// string that itself encodes the object.
func parseDirect(raw string) (*correctionPayload, bool) {
	trimmed := strings.TrimSpace(raw)

	if payload, ok := unmarshalPayload(trimmed); ok {
		return payload, true
	}

	var inner string
	if err := json.Unmarshal([]byte(trimmed), &inner); err == nil {
		return unmarshalPayload(inner)
	}
	return nil, false
}

// parseStripped removes known escape artifacts and surrounding quote
// characters before retrying the parse.
func parseStripped(raw string) (*correctionPayload, bool) {
	return unmarshalPayload(stripArtifacts(raw))
}

// parseEmbedded extracts the first brace-delimited {...} substring from
// output where the object is wrapped in prose.
func parseEmbedded(raw string) (*correctionPayload, bool) {
	cleaned := stripArtifacts(raw)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	return unmarshalPayload(cleaned[start : end+1])
}

func stripArtifacts(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\n`, " ")
	s = strings.Trim(s, "\"'`")
	return strings.TrimSpace(s)
}

func unmarshalPayload(s string) (*correctionPayload, bool) {
	var payload correctionPayload
	if err := json.Unmarshal([]byte(s), &payload); err != nil {
		return nil, false
	}
	// An object without the corrected address is useless downstream;
	// treat it like a parse failure so the caller degrades safely.
	if payload.CorrectedAddress == "" {
		return nil, false
	}
	return &payload, true
}
