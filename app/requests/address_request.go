package requests

import "github.com/address-corrector/internal/geocode"

// FormatAddressRequest request to correct and decompose a single address
type FormatAddressRequest struct {
	Address string `json:"address" binding:"required"` // raw address text
}

// SeedGazetteerRequest request to load places into the local gazetteer index
type SeedGazetteerRequest struct {
	Places []geocode.PlaceDoc `json:"places" binding:"required,min=1"` // place documents
}
