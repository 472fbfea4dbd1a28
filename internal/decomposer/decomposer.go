package decomposer

import (
	"regexp"
	"strings"

	"github.com/address-corrector/app/models"
)

// Decomposer maps a corrected address string to a structured
// FormattedAddress. It is deterministic, does no I/O and always returns
// a value; the worst case for noise-only input is a zero-value struct
// with an empty FormattedQuery.
//
// Patterns are precompiled once at construction (same approach as a
// normalizer pipeline: later patterns may only match text revealed by
// earlier stripping, so application order is fixed).
type Decomposer struct {
	// Noise classes, applied in this order.
	houseNumberPattern *regexp.Regexp
	positionPattern    *regexp.Regexp
	fillerPattern      *regexp.Regexp

	neighbourhoodMarker *regexp.Regexp
	segmentSplit        *regexp.Regexp
	whitespacePattern   *regexp.Regexp
}

// NewDecomposer creates a Decomposer with all patterns compiled.
func NewDecomposer() *Decomposer {
	return &Decomposer{
		// "no. 15", "number 15", "15", "15b"
		houseNumberPattern: regexp.MustCompile(`\b(?:no\.?\s*|number\s+)?\d+[a-z]?\b`),
		// Relative-position fillers; multi-word phrases listed before
		// any single word they could partially shadow.
		positionPattern: regexp.MustCompile(`\b(?:adjacent to|next to|in front of|off|near|behind|opposite|beside)\b`),
		// Determiners and prepositions stripped last so that "in front
		// of" is consumed whole by the position class above.
		fillerPattern: regexp.MustCompile(`\b(?:the|at|on|in)\b`),

		// Substring containment, not whole-word: "districts" and
		// "headquarters" carry a marker too.
		neighbourhoodMarker: regexp.MustCompile(`district|area|quarter`),
		segmentSplit:        regexp.MustCompile(`[,/\\]`),
		whitespacePattern:   regexp.MustCompile(`\s+`),
	}
}

// positional slots, in assignment order
type slot int

const (
	slotStreet slot = iota
	slotTown
	slotLocalGovernment
	slotState
	slotDone
)

// Decompose splits a corrected address into positional components and
// derives the primary and single-component fallback queries.
func (d *Decomposer) Decompose(corrected string) models.FormattedAddress {
	var fa models.FormattedAddress

	cleaned := d.stripNoise(d.normalize(corrected))
	segments := d.splitSegments(cleaned)

	// Slot state machine: the cursor tracks the next positional slot.
	// A neighbourhood marker in the second segment fills Neighbourhood
	// without advancing the cursor, which shifts every later
	// assignment down by one segment.
	next := slotStreet
	for i, seg := range segments {
		if next == slotDone {
			break
		}
		if i == 1 && d.neighbourhoodMarker.MatchString(seg) {
			fa.Neighbourhood = seg
			continue
		}
		switch next {
		case slotStreet:
			fa.Street = seg
			next = slotTown
		case slotTown:
			fa.Town = seg
			next = slotLocalGovernment
		case slotLocalGovernment:
			fa.LocalGovernment = seg
			next = slotState
		case slotState:
			fa.State = seg
			next = slotDone
		}
	}

	fa.FormattedQuery = buildFormattedQuery(fa)
	fa.AlternativeQueries = models.AlternativeQueries{
		NeighbourhoodOnly:   fa.Neighbourhood,
		TownOnly:            fa.Town,
		LocalGovernmentOnly: fa.LocalGovernment,
	}

	return fa
}

// normalize lower-cases, strips diacritics and collapses whitespace.
func (d *Decomposer) normalize(in string) string {
	s := strings.ToLower(strings.TrimSpace(in))
	s = StripDiacritics(s)
	s = d.whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stripNoise removes house numbers, relative-position fillers and
// determiners, in that order.
func (d *Decomposer) stripNoise(in string) string {
	s := d.houseNumberPattern.ReplaceAllString(in, " ")
	s = d.positionPattern.ReplaceAllString(s, " ")
	s = d.fillerPattern.ReplaceAllString(s, " ")
	s = d.whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// splitSegments breaks the cleaned string on comma, slash or backslash
// into ordered non-empty trimmed segments. Segments are never
// re-ordered.
func (d *Decomposer) splitSegments(in string) []string {
	parts := d.segmentSplit.Split(in, -1)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return segments
}

// buildFormattedQuery joins the assigned components in fixed order.
// Absent components are skipped, never left as empty placeholders.
func buildFormattedQuery(fa models.FormattedAddress) string {
	parts := make([]string, 0, 5)
	for _, component := range []string{fa.Street, fa.Neighbourhood, fa.Town, fa.LocalGovernment, fa.State} {
		if component != "" {
			parts = append(parts, component)
		}
	}
	return strings.Join(parts, ", ")
}
