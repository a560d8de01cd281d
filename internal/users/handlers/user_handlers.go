package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/architect/classroom-backend/internal/common/errors"
	"github.com/architect/classroom-backend/internal/common/middleware"
	"github.com/architect/classroom-backend/internal/users/services"
)

type UserHandler struct {
	profiles *services.ProfileService
}

func NewUserHandler(profiles *services.ProfileService) *UserHandler {
	return &UserHandler{profiles: profiles}
}

// GetProfile returns the caller's profile including engagement counters.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	user, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, user)
}

// UpdateProfile applies edits to the caller's profile fields.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var update services.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		middleware.JSONErrorResponse(c, apperrors.Validation("invalid request body", err.Error()))
		return
	}

	user, err := h.profiles.Update(c.Request.Context(), userID, update)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, gin.H{
		"message": "profile updated successfully",
		"user":    user,
	})
}
