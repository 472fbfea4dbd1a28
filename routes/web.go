package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupWebRoutes wires the informational routes
func SetupWebRoutes(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Address Corrector Service",
			"version": "1.0.0",
			"docs":    "/docs",
		})
	})

	router.GET("/docs", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"api": "Address Corrector API",
			"endpoints": map[string]string{
				"format": "POST /format-address",
				"search": "GET /search?q=",
				"stats":  "GET /stats",
				"seed":   "POST /v1/admin/gazetteer/seed",
				"health": "GET /health",
			},
		})
	})
}
