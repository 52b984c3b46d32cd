package server

import (
	"net/http"

	"github.com/arnavshah/double-bubble-api-go/pkg/handlers"
	"github.com/arnavshah/double-bubble-api-go/pkg/logging"
	"github.com/gin-gonic/gin"
)

// Version is reported by the root endpoint
const Version = "1.0.0"

// NewRouter wires every route onto a fresh gin engine
func NewRouter(h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.Use(logging.GinMiddleware(h.Logger), gin.Recovery())

	// Admin interface - serve static files from embedded FS
	r.StaticFS("/static", h.GetStaticFS())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Double Bubble Analyzer API",
			"version": Version,
		})
	})

	r.GET("/admin", h.AdminInterface)
	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	// Analysis Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/analyze", h.AnalyzeJSON)
		api.POST("/analyze/csv", h.AnalyzeCSV)
		api.POST("/validate", h.ValidateInput)
		api.GET("/runs/:id", h.GetRun)
		api.GET("/runs/:id/export", h.ExportRun)
		api.GET("/usage", h.GetMyUsage)
	}

	return r
}
