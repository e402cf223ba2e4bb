package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutrino-ai/nutrino/internal/ports/inbound"
)

// ProfileHandlers serves the profile page
type ProfileHandlers struct {
	profiles inbound.ProfileService
}

// NewProfileHandlers creates a new profile handlers instance
func NewProfileHandlers(profiles inbound.ProfileService) *ProfileHandlers {
	return &ProfileHandlers{profiles: profiles}
}

// GetProfile handles GET /api/profile
func (h *ProfileHandlers) GetProfile(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), identity)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, profile, "")
}

// ChangeAvatar handles POST /api/profile/avatar
func (h *ProfileHandlers) ChangeAvatar(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	profile, err := h.profiles.ChangeAvatar(c.Request.Context(), identity)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, profile, "Avatar updated successfully")
}
