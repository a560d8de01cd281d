package handlers

import (
	"github.com/gin-gonic/gin"

	classroomhandlers "github.com/architect/classroom-backend/internal/classroom/handlers"
	classroomservices "github.com/architect/classroom-backend/internal/classroom/services"
	"github.com/architect/classroom-backend/internal/common/middleware"
	"github.com/architect/classroom-backend/internal/leaderboard/services"
)

type LeaderboardHandler struct {
	ranker     *services.LeaderboardService
	classrooms *classroomservices.ClassroomService
}

func NewLeaderboardHandler(ranker *services.LeaderboardService, classrooms *classroomservices.ClassroomService) *LeaderboardHandler {
	return &LeaderboardHandler{ranker: ranker, classrooms: classrooms}
}

// GetLeaderboard returns the ranked standings for a classroom. Admin view.
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	classroomID, ok := classroomhandlers.ParseUUIDParam(c, "classroomId")
	if !ok {
		return
	}

	userID, _ := middleware.UserID(c)
	if _, err := h.classrooms.AuthorizeAdmin(c.Request.Context(), userID, classroomID); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	entries, err := h.ranker.Rank(c.Request.Context(), classroomID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, gin.H{"leaderboard": entries})
}

// GetLeaderboardWithViewer returns the standings plus the calling learner's
// own position.
func (h *LeaderboardHandler) GetLeaderboardWithViewer(c *gin.Context) {
	classroomID, ok := classroomhandlers.ParseUUIDParam(c, "classroomId")
	if !ok {
		return
	}

	userID, _ := middleware.UserID(c)
	if _, err := h.classrooms.Authorize(c.Request.Context(), userID, classroomID); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	entries, viewer, err := h.ranker.RankWithViewer(c.Request.Context(), classroomID, userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, gin.H{
		"leaderboard": entries,
		"user_stats":  viewer,
	})
}
