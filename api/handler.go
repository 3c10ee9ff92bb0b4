package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jetmil/dreamcapture/services"
	"github.com/jetmil/dreamcapture/stream"
)

// APIHandler holds all dependencies for API handlers.
type APIHandler struct {
	dreamService     services.DreamService
	momentService    services.MomentService
	resonanceService services.ResonanceService
	savedService     services.SavedContentService
	hub              *stream.Hub
	aiEnabled        bool
}

// NewAPIHandler creates a new APIHandler with necessary dependencies.
func NewAPIHandler(
	dreamService services.DreamService,
	momentService services.MomentService,
	resonanceService services.ResonanceService,
	savedService services.SavedContentService,
	hub *stream.Hub,
	aiEnabled bool,
) *APIHandler {
	return &APIHandler{
		dreamService:     dreamService,
		momentService:    momentService,
		resonanceService: resonanceService,
		savedService:     savedService,
		hub:              hub,
		aiEnabled:        aiEnabled,
	}
}

// RootHandler returns service identification.
func (h *APIHandler) RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":       "DreamCapture API",
		"version":    "0.1.0",
		"status":     "running",
		"ai_enabled": h.aiEnabled,
	})
}

// HealthHandler reports liveness.
func (h *APIHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// pagination reads skip/limit query parameters with feed defaults.
func pagination(c *gin.Context) (int, int) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	return skip, limit
}
