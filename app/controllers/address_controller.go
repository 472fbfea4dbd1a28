package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/address-corrector/app/requests"
	"github.com/address-corrector/app/responses"
	"github.com/address-corrector/app/services"
	"github.com/address-corrector/helpers/utils"
	"github.com/address-corrector/internal/geocode"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AddressController handles address correction and search requests
type AddressController struct {
	addressService *services.AddressService
	logger         *zap.Logger
}

// NewAddressController creates an AddressController
func NewAddressController(addressService *services.AddressService, logger *zap.Logger) *AddressController {
	return &AddressController{
		addressService: addressService,
		logger:         logger,
	}
}

// FormatAddress corrects and decomposes a single address
func (ac *AddressController) FormatAddress(c *gin.Context) {
	var req requests.FormatAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("INVALID_REQUEST", "address is required: "+err.Error()))
		return
	}

	outcome, err := ac.addressService.FormatAddress(c.Request.Context(), req.Address)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("INVALID_ADDRESS", err.Error()))
		return
	}

	c.JSON(http.StatusOK, responses.FormatAddressResponse{
		Original:        outcome.Original,
		Corrected:       outcome.Correction.CorrectedAddress,
		Corrections:     outcome.Correction.Corrections,
		Confidence:      outcome.Correction.Confidence,
		Formatted:       outcome.Formatted,
		NominatimURL:    outcome.NominatimURL,
		AlternativeURLs: outcome.AlternativeURLs,
		CacheHit:        outcome.CacheHit,
	})
}

// Search corrects an address and geocodes it
func (ac *AddressController) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, errorResponse("MISSING_QUERY", "query parameter q is required"))
		return
	}

	outcome, err := ac.addressService.SearchAddress(c.Request.Context(), query)
	if err != nil {
		ac.logger.Error("search failed", zap.String("query", query), zap.Error(err))
		switch {
		case errors.Is(err, geocode.ErrTransport):
			c.JSON(http.StatusInternalServerError, errorResponse("GEOCODE_UNAVAILABLE", "geocoding service unreachable"))
		case errors.Is(err, geocode.ErrParse):
			c.JSON(http.StatusInternalServerError, errorResponse("GEOCODE_BAD_RESPONSE", "geocoding service returned an unreadable response"))
		default:
			c.JSON(http.StatusInternalServerError, errorResponse("SEARCH_ERROR", err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, responses.SearchAddressResponse{
		Original:           outcome.Original,
		Corrected:          outcome.Correction.CorrectedAddress,
		Corrections:        outcome.Correction.Corrections,
		Confidence:         outcome.Correction.Confidence,
		Formatted:          outcome.Formatted,
		Results:            outcome.Resolution.Results,
		AlternativeResults: outcome.Resolution.AlternativeResults,
	})
}

// GetStats reports correction counters and the recent history window
func (ac *AddressController) GetStats(c *gin.Context) {
	counters, recent := ac.addressService.Stats()

	c.JSON(http.StatusOK, responses.StatsResponse{
		Stats:           counters,
		RecentAddresses: recent,
	})
}

// HealthCheck reports service health
func (ac *AddressController) HealthCheck(c *gin.Context) {
	servicesStatus := map[string]string{
		"corrector": "healthy",
		"geocoder":  "healthy",
	}
	if _, err := ac.addressService.CacheStats(c.Request.Context()); err != nil {
		servicesStatus["cache"] = "degraded"
	} else {
		servicesStatus["cache"] = "healthy"
	}

	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    ac.addressService.Uptime().String(),
		Version:   "1.0.0",
		Services:  servicesStatus,
	})
}

func errorResponse(code, message string) responses.ErrorResponse {
	return responses.ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
		RequestID: utils.GenerateShortID(),
	}
}
