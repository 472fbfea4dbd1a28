package decomposer

import (
	"strings"
	"testing"

	"github.com/address-corrector/app/models"
)

func TestDecompose_PositionalAssignment(t *testing.T) {
	d := NewDecomposer()

	testCases := []struct {
		name     string
		input    string
		expected models.FormattedAddress
	}{
		{
			name:  "Neighbourhood_Shift",
			input: "Allen Avenue, GRA district, Ikeja, Lagos",
			expected: models.FormattedAddress{
				Street:          "allen avenue",
				Neighbourhood:   "gra district",
				Town:            "ikeja",
				LocalGovernment: "lagos",
			},
		},
		{
			name:  "No_Shift_Without_Marker",
			input: "Allen Avenue, Ikeja, Lagos, Nigeria",
			expected: models.FormattedAddress{
				Street:          "allen avenue",
				Town:            "ikeja",
				LocalGovernment: "lagos",
				State:           "nigeria",
			},
		},
		{
			name:  "Shift_With_All_Five_Components",
			input: "Marina Road, Ikoyi area, Lagos Island, Eti-Osa, Lagos",
			expected: models.FormattedAddress{
				Street:          "marina road",
				Neighbourhood:   "ikoyi area",
				Town:            "lagos island",
				LocalGovernment: "eti-osa",
				State:           "lagos",
			},
		},
		{
			name:  "Plural_Marker_Also_Shifts",
			input: "Allen Avenue, GRA districts, Ikeja, Lagos",
			expected: models.FormattedAddress{
				Street:          "allen avenue",
				Neighbourhood:   "gra districts",
				Town:            "ikeja",
				LocalGovernment: "lagos",
			},
		},
		{
			name:  "Marker_Inside_Compound_Word_Shifts",
			input: "Broad Street, Police Headquarters, Obalende, Lagos",
			expected: models.FormattedAddress{
				Street:          "broad street",
				Neighbourhood:   "police headquarters",
				Town:            "obalende",
				LocalGovernment: "lagos",
			},
		},
		{
			name:  "Quarter_Marker_Also_Shifts",
			input: "Ahmadu Bello Way, Sabon Gari quarter, Kano",
			expected: models.FormattedAddress{
				Street:        "ahmadu bello way",
				Neighbourhood: "sabon gari quarter",
				Town:          "kano",
			},
		},
		{
			name:  "Street_Only",
			input: "Broad Street",
			expected: models.FormattedAddress{
				Street: "broad street",
			},
		},
		{
			name:  "Slash_Separators",
			input: "Allen Avenue/Ikeja/Lagos",
			expected: models.FormattedAddress{
				Street:          "allen avenue",
				Town:            "ikeja",
				LocalGovernment: "lagos",
			},
		},
		{
			name:  "Extra_Segments_Ignored",
			input: "a street, b town, c lg, d state, extra one, extra two",
			expected: models.FormattedAddress{
				Street:          "a street",
				Town:            "b town",
				LocalGovernment: "c lg",
				State:           "d state",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := d.Decompose(tc.input)

			if got.Street != tc.expected.Street {
				t.Errorf("street = %q, want %q", got.Street, tc.expected.Street)
			}
			if got.Neighbourhood != tc.expected.Neighbourhood {
				t.Errorf("neighbourhood = %q, want %q", got.Neighbourhood, tc.expected.Neighbourhood)
			}
			if got.Town != tc.expected.Town {
				t.Errorf("town = %q, want %q", got.Town, tc.expected.Town)
			}
			if got.LocalGovernment != tc.expected.LocalGovernment {
				t.Errorf("localGovernment = %q, want %q", got.LocalGovernment, tc.expected.LocalGovernment)
			}
			if got.State != tc.expected.State {
				t.Errorf("state = %q, want %q", got.State, tc.expected.State)
			}
		})
	}
}

func TestDecompose_NoiseStripping(t *testing.T) {
	d := NewDecomposer()

	testCases := []struct {
		name       string
		input      string
		wantStreet string
		wantAbsent []string
	}{
		{
			name:       "House_Number_And_Fillers",
			input:      "No. 15 off Allen Avenue, near GRA",
			wantStreet: "allen avenue",
			wantAbsent: []string{"15", "no.", "off", "near"},
		},
		{
			name:       "Number_Prefix_And_Letter_Suffix",
			input:      "number 23b Awolowo Road, Ikoyi",
			wantStreet: "awolowo road",
			wantAbsent: []string{"23", "number"},
		},
		{
			name:       "Relative_Position_Phrases",
			input:      "in front of the bank adjacent to Balogun Market, Lagos Island",
			wantStreet: "bank balogun market",
			wantAbsent: []string{"in front of", "adjacent to", "the"},
		},
		{
			name:       "Determiners_Inside_Words_Survive",
			input:      "Concord Avenue, Onitsha",
			wantStreet: "concord avenue",
			wantAbsent: nil,
		},
		{
			name:       "Ordinal_Street_Names_Survive",
			input:      "21st Crescent, Gwarinpa",
			wantStreet: "21st crescent",
			wantAbsent: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := d.Decompose(tc.input)

			if got.Street != tc.wantStreet {
				t.Errorf("street = %q, want %q", got.Street, tc.wantStreet)
			}
			for _, token := range tc.wantAbsent {
				if strings.Contains(got.FormattedQuery, token) {
					t.Errorf("formattedQuery %q still contains noise token %q", got.FormattedQuery, token)
				}
			}
		})
	}
}

func TestDecompose_EmptyAndAllNoiseInput(t *testing.T) {
	d := NewDecomposer()

	for _, input := range []string{"", "   ", "no. 12 off the", "15 at in on"} {
		got := d.Decompose(input)
		if got.FormattedQuery != "" {
			t.Errorf("Decompose(%q).FormattedQuery = %q, want empty", input, got.FormattedQuery)
		}
		if got.Street != "" || got.Neighbourhood != "" || got.Town != "" || got.LocalGovernment != "" || got.State != "" {
			t.Errorf("Decompose(%q) assigned components: %+v", input, got)
		}
	}
}

func TestDecompose_FormattedQueryOrderAndContent(t *testing.T) {
	d := NewDecomposer()

	got := d.Decompose("Allen Avenue, GRA district, Ikeja, Lagos")
	want := "allen avenue, gra district, ikeja, lagos"
	if got.FormattedQuery != want {
		t.Fatalf("formattedQuery = %q, want %q", got.FormattedQuery, want)
	}

	// Absent components must be skipped, never joined as empty slots.
	got = d.Decompose("Broad Street")
	if got.FormattedQuery != "broad street" {
		t.Errorf("formattedQuery = %q, want %q", got.FormattedQuery, "broad street")
	}
	if strings.Contains(got.FormattedQuery, ", ,") || strings.HasSuffix(got.FormattedQuery, ", ") {
		t.Errorf("formattedQuery has empty placeholders: %q", got.FormattedQuery)
	}
}

func TestDecompose_AlternativeQueries(t *testing.T) {
	d := NewDecomposer()

	got := d.Decompose("Allen Avenue, GRA district, Ikeja, Lagos")
	alt := got.AlternativeQueries
	if alt.NeighbourhoodOnly != "gra district" {
		t.Errorf("neighbourhoodOnly = %q, want %q", alt.NeighbourhoodOnly, "gra district")
	}
	if alt.TownOnly != "ikeja" {
		t.Errorf("townOnly = %q, want %q", alt.TownOnly, "ikeja")
	}
	if alt.LocalGovernmentOnly != "lagos" {
		t.Errorf("localGovernmentOnly = %q, want %q", alt.LocalGovernmentOnly, "lagos")
	}

	// A street-only address yields no alternatives at all.
	got = d.Decompose("Broad Street")
	if got.AlternativeQueries.NeighbourhoodOnly != "" || got.AlternativeQueries.TownOnly != "" || got.AlternativeQueries.LocalGovernmentOnly != "" {
		t.Errorf("street-only address produced alternatives: %+v", got.AlternativeQueries)
	}
}

func TestDecompose_Idempotent(t *testing.T) {
	d := NewDecomposer()

	// Noise-free inputs must decompose identically when fed their own
	// formatted query back through.
	inputs := []string{
		"Allen Avenue, GRA district, Ikeja, Lagos",
		"Allen Avenue, Ikeja, Lagos, Nigeria",
		"Broad Street",
		"Marina Road, Ikoyi area, Lagos Island, Eti-Osa, Lagos",
	}

	for _, input := range inputs {
		first := d.Decompose(input)
		second := d.Decompose(first.FormattedQuery)
		if first != second {
			t.Errorf("Decompose not stable for %q:\n first: %+v\nsecond: %+v", input, first, second)
		}
	}
}

func TestDecompose_DiacriticsStripped(t *testing.T) {
	d := NewDecomposer()

	got := d.Decompose("Allén Avenue, Ikeja")
	if got.Street != "allen avenue" {
		t.Errorf("street = %q, want %q", got.Street, "allen avenue")
	}
}
