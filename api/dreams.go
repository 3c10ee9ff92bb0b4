package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jetmil/dreamcapture/middleware"
	"github.com/jetmil/dreamcapture/services"
	"github.com/jetmil/dreamcapture/utils"
)

// CreateDreamRequest is the payload for recording a dream.
type CreateDreamRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	AudioURL    string `json:"audio_url"`
	IsPublic    *bool  `json:"is_public"`
	TTLDays     int    `json:"ttl_days"`
}

// CreateDreamHandler handles POST /api/dreams.
func (h *APIHandler) CreateDreamHandler(c *gin.Context) {
	var req CreateDreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: title and description are required.", err)
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	input := services.DreamCreateInput{
		Title:       req.Title,
		Description: req.Description,
		AudioURL:    req.AudioURL,
		IsPublic:    isPublic,
		TTLDays:     req.TTLDays,
	}
	dream, err := h.dreamService.Create(c.Request.Context(), middleware.UserID(c), input, time.Now().UTC())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dream)
}

// ListDreamsHandler handles GET /api/dreams: the public feed.
func (h *APIHandler) ListDreamsHandler(c *gin.Context) {
	skip, limit := pagination(c)
	dreams, err := h.dreamService.ListPublic(time.Now().UTC(), skip, limit)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, dreams)
}

// ListMyDreamsHandler handles GET /api/dreams/my: the owner's feed,
// private dreams included.
func (h *APIHandler) ListMyDreamsHandler(c *gin.Context) {
	skip, limit := pagination(c)
	dreams, err := h.dreamService.ListMine(middleware.UserID(c), time.Now().UTC(), skip, limit)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, dreams)
}

// GetDreamHandler handles GET /api/dreams/:id.
func (h *APIHandler) GetDreamHandler(c *gin.Context) {
	dream, err := h.dreamService.Get(c.Param("id"), middleware.UserID(c), time.Now().UTC())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, dream)
}

// DeleteDreamHandler handles DELETE /api/dreams/:id.
func (h *APIHandler) DeleteDreamHandler(c *gin.Context) {
	if err := h.dreamService.Delete(c.Param("id"), middleware.UserID(c)); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dream deleted."})
}
