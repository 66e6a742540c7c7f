package api

import (
	"fmt"
	"net/http"

	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

type WaterRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func (h *ProgressHandler) ListLogs(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	logs, err := h.progressService.Logs(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve logs.")
		return
	}
	if logs == nil {
		logs = []domain.ProgressLog{}
	}
	c.JSON(http.StatusOK, logs)
}

// GetDefaults returns the prefilled log form for :date.
func (h *ProgressHandler) GetDefaults(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	d, err := h.progressService.Defaults(c.Request.Context(), userID, dateParam(c))
	if err != nil {
		respondWithError(c, err, "Failed to load log defaults.")
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *ProgressHandler) SaveLog(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req service.LogInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	saved, err := h.progressService.SaveLog(c.Request.Context(), userID, dateParam(c), req)
	if err != nil {
		respondWithError(c, err, "Failed to save log.")
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *ProgressHandler) ToggleItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	saved, err := h.progressService.ToggleItem(c.Request.Context(), userID, dateParam(c), c.Param("key"))
	if err != nil {
		respondWithError(c, err, "Failed to update item.")
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *ProgressHandler) AdjustWater(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req WaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	saved, err := h.progressService.AdjustWater(c.Request.Context(), userID, dateParam(c), req.Delta)
	if err != nil {
		respondWithError(c, err, "Failed to update water intake.")
		return
	}
	c.JSON(http.StatusOK, saved)
}
