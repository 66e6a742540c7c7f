package api

import (
	"fmt"
	"net/http"

	"fittrack/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

type SaveProfileResponse struct {
	Profile           service.ProfileView `json:"profile"`
	NeedsRegeneration bool                `json:"needsRegeneration"`
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	profile, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to load profile.")
		return
	}
	c.JSON(http.StatusOK, service.DisplayProfile(profile))
}

// SaveProfile accepts the profile in the user's display units.
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req service.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	saved, err := h.profileService.Save(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, err, "Failed to save profile.")
		return
	}
	c.JSON(http.StatusOK, SaveProfileResponse{
		Profile:           service.DisplayProfile(saved.Profile),
		NeedsRegeneration: saved.NeedsRegeneration,
	})
}
