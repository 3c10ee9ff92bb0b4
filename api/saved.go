package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jetmil/dreamcapture/middleware"
	"github.com/jetmil/dreamcapture/utils"
)

// SaveContentRequest is the payload for snapshotting content.
type SaveContentRequest struct {
	ContentType string `json:"content_type" binding:"required"`
	ContentID   string `json:"content_id" binding:"required"`
	Note        string `json:"note"`
}

// SaveContentHandler handles POST /api/saved.
func (h *APIHandler) SaveContentHandler(c *gin.Context) {
	var req SaveContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: content_type and content_id are required.", err)
		return
	}

	saved, err := h.savedService.Save(middleware.UserID(c), req.ContentType, req.ContentID, req.Note, time.Now().UTC())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// ListMySavedHandler handles GET /api/saved/my.
func (h *APIHandler) ListMySavedHandler(c *gin.Context) {
	skip, limit := pagination(c)
	saved, err := h.savedService.ListForUser(middleware.UserID(c), skip, limit)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}
