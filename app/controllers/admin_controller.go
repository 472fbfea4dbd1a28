package controllers

import (
	"net/http"

	"github.com/address-corrector/app/requests"
	"github.com/address-corrector/app/responses"
	"github.com/address-corrector/internal/geocode"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminController handles gazetteer administration
type AdminController struct {
	gazetteer *geocode.Gazetteer
	logger    *zap.Logger
}

// NewAdminController creates an AdminController. gazetteer may be nil
// when the service runs against a remote geocoder only.
func NewAdminController(gazetteer *geocode.Gazetteer, logger *zap.Logger) *AdminController {
	return &AdminController{
		gazetteer: gazetteer,
		logger:    logger,
	}
}

// SeedGazetteer loads place documents into the local gazetteer index
func (ac *AdminController) SeedGazetteer(c *gin.Context) {
	if ac.gazetteer == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse("GAZETTEER_DISABLED", "local gazetteer is not configured"))
		return
	}

	var req requests.SeedGazetteerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("INVALID_REQUEST", "places are required: "+err.Error()))
		return
	}

	if err := ac.gazetteer.Seed(c.Request.Context(), req.Places); err != nil {
		ac.logger.Error("gazetteer seed failed", zap.Error(err), zap.Int("places", len(req.Places)))
		c.JSON(http.StatusInternalServerError, errorResponse("SEED_FAILED", err.Error()))
		return
	}

	ac.logger.Info("gazetteer seeded", zap.Int("places", len(req.Places)))

	c.JSON(http.StatusOK, responses.SeedGazetteerResponse{
		Seeded:  len(req.Places),
		Message: "places submitted to the gazetteer index",
	})
}
