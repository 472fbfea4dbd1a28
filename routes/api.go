package routes

import (
	"context"
	"net/http"

	"github.com/address-corrector/app/config"
	"github.com/address-corrector/app/controllers"
	"github.com/gin-gonic/gin"
)

// SetupAPIRoutes wires the core endpoints
func SetupAPIRoutes(router *gin.Engine, addressController *controllers.AddressController, adminController *controllers.AdminController) {
	router.POST("/format-address", addressController.FormatAddress)
	router.GET("/search", addressController.Search)
	router.GET("/stats", addressController.GetStats)

	// Admin routes
	v1 := router.Group("/v1")
	{
		admin := v1.Group("/admin")
		{
			admin.POST("/gazetteer/seed", adminController.SeedGazetteer)
		}
	}
}

// SetupHealthRoutes wires the health probes
func SetupHealthRoutes(router *gin.Engine, addressController *controllers.AddressController) {
	router.GET("/health", addressController.HealthCheck)
	router.GET("/ready", addressController.HealthCheck)
	router.GET("/live", addressController.HealthCheck)
}

// SetupAllRoutes wires middleware, routes and the fallback handler
func SetupAllRoutes(router *gin.Engine, addressController *controllers.AddressController, adminController *controllers.AdminController) {
	setupMiddleware(router)

	SetupWebRoutes(router)
	SetupHealthRoutes(router, addressController)
	SetupAPIRoutes(router, addressController, adminController)

	// Unknown paths get a plain-text body
	router.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Not found")
	})
}

// setupMiddleware attaches router-wide middleware
func setupMiddleware(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(requestBudget())
}

// requestBudget caps every request context so a slow upstream cannot
// hold a worker past the configured budget.
func requestBudget() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), config.RequestTimeout())
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
