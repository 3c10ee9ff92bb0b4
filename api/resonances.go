package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jetmil/dreamcapture/middleware"
	"github.com/jetmil/dreamcapture/utils"
)

// CreateResonanceRequest is the payload for scoring a dream/moment pair.
type CreateResonanceRequest struct {
	DreamID  string `json:"dream_id" binding:"required"`
	MomentID string `json:"moment_id" binding:"required"`
}

// SaveResonanceRequest toggles the premium retention flag.
type SaveResonanceRequest struct {
	Saved *bool `json:"saved" binding:"required"`
}

// CreateResonanceHandler handles POST /api/resonances.
func (h *APIHandler) CreateResonanceHandler(c *gin.Context) {
	var req CreateResonanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: dream_id and moment_id are required.", err)
		return
	}

	resonance, err := h.resonanceService.Create(c.Request.Context(), middleware.UserID(c), req.DreamID, req.MomentID, time.Now().UTC())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resonance)
}

// ListMyResonancesHandler handles GET /api/resonances/my.
func (h *APIHandler) ListMyResonancesHandler(c *gin.Context) {
	skip, limit := pagination(c)
	resonances, err := h.resonanceService.ListForUser(middleware.UserID(c), skip, limit)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, resonances)
}

// SaveResonanceHandler handles POST /api/resonances/:id/save.
func (h *APIHandler) SaveResonanceHandler(c *gin.Context) {
	var req SaveResonanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: saved is required.", err)
		return
	}

	resonance, err := h.resonanceService.SetSaved(middleware.UserID(c), c.Param("id"), *req.Saved)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, resonance)
}
