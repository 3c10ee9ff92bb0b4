package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jetmil/dreamcapture/middleware"
	"github.com/jetmil/dreamcapture/models"
	"github.com/jetmil/dreamcapture/services"
	"github.com/jetmil/dreamcapture/utils"
)

// CreateMomentRequest is the payload for posting a moment.
type CreateMomentRequest struct {
	Caption   string           `json:"caption"`
	MediaType string           `json:"media_type" binding:"required"`
	MediaURL  string           `json:"media_url" binding:"required"`
	Location  *models.Location `json:"location"`
}

// CreateMomentHandler handles POST /api/moments.
func (h *APIHandler) CreateMomentHandler(c *gin.Context) {
	var req CreateMomentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: media_type and media_url are required.", err)
		return
	}

	input := services.MomentCreateInput{
		Caption:   req.Caption,
		MediaType: req.MediaType,
		MediaURL:  req.MediaURL,
		Location:  req.Location,
	}
	moment, err := h.momentService.Create(c.Request.Context(), middleware.UserID(c), input, time.Now().UTC())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, moment)
}

// ListMomentsHandler handles GET /api/moments: the live feed.
func (h *APIHandler) ListMomentsHandler(c *gin.Context) {
	skip, limit := pagination(c)
	moments, err := h.momentService.List(time.Now().UTC(), skip, limit)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, moments)
}

// GetMomentHandler handles GET /api/moments/:id.
func (h *APIHandler) GetMomentHandler(c *gin.Context) {
	moment, err := h.momentService.Get(c.Param("id"), time.Now().UTC())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, moment)
}
