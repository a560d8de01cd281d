package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/architect/classroom-backend/internal/common/errors"
	"github.com/architect/classroom-backend/internal/common/middleware"
	"github.com/architect/classroom-backend/internal/engagement/services"
)

type EngagementHandler struct {
	streaks *services.StreakService
	xp      *services.XPService
}

func NewEngagementHandler(streaks *services.StreakService, xp *services.XPService) *EngagementHandler {
	return &EngagementHandler{streaks: streaks, xp: xp}
}

// RecordActivity is the session-start ping. The streak update runs in the
// background; the response never waits on it.
func (h *EngagementHandler) RecordActivity(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	h.streaks.RecordActivityAsync(userID)
	c.JSON(202, gin.H{"message": "activity recorded"})
}

// GetStreak returns the caller's current streak state.
func (h *EngagementHandler) GetStreak(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	state, err := h.streaks.CurrentState(c.Request.Context(), userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, state)
}

type grantXPRequest struct {
	Amount       int    `json:"amount" binding:"required"`
	Reason       string `json:"reason" binding:"required"`
	ActivityType string `json:"activity_type" binding:"required"`
}

// GrantXP awards XP to the caller and appends the ledger record in the same
// transaction.
func (h *EngagementHandler) GrantXP(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req grantXPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, apperrors.Validation("invalid request body", err.Error()))
		return
	}

	result, err := h.xp.GrantXP(c.Request.Context(), userID, req.Amount, req.Reason, req.ActivityType)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, gin.H{
		"success":    true,
		"current_xp": result.XP,
		"level":      result.Level,
		"level_up":   result.LeveledUp,
		"new_badges": result.NewBadges,
	})
}

// GetXP returns the caller's cumulative XP.
func (h *EngagementHandler) GetXP(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	xp, err := h.xp.GetXP(c.Request.Context(), userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, gin.H{"xp": xp})
}

// GetLedger returns the caller's recent XP grants, newest first.
func (h *EngagementHandler) GetLedger(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	limit := 20
	if v, ok := c.GetQuery("limit"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.xp.LedgerHistory(c.Request.Context(), userID, limit)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, gin.H{"transactions": entries})
}
