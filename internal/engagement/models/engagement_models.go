package models

import (
	"time"
)

// XpTransaction is one immutable ledger entry. The ledger is append-only and
// is the source of truth for cumulative XP.
type XpTransaction struct {
	ID           uint      `gorm:"primaryKey;column:transaction_id" json:"transaction_id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Amount       int       `gorm:"not null" json:"amount"`
	Reason       string    `gorm:"size:255;not null" json:"reason"`
	ActivityType string    `gorm:"size:50;not null" json:"activity_type"`
	Timestamp    time.Time `gorm:"not null" json:"timestamp"`
}

func (XpTransaction) TableName() string { return "xp_transactions" }

// Badge is awarded once a user's cumulative XP reaches its threshold.
type Badge struct {
	ID          uint   `gorm:"primaryKey;column:badge_id" json:"badge_id"`
	Name        string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string `json:"description"`
	XPThreshold int    `gorm:"not null" json:"xp_threshold"`
}

func (Badge) TableName() string { return "badges" }

// UserBadge records a single badge award.
type UserBadge struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index:idx_user_badge,unique" json:"user_id"`
	BadgeID  uint      `gorm:"not null;index:idx_user_badge,unique" json:"badge_id"`
	EarnedAt time.Time `gorm:"not null" json:"earned_at"`
}

func (UserBadge) TableName() string { return "user_badges" }

// StreakState is the result of a streak engine transition.
type StreakState struct {
	CurrentStreak   int    `json:"current_streak"`
	HighestStreak   int    `json:"highest_streak"`
	TotalActiveDays int    `json:"total_active_days"`
	LastActiveDate  string `json:"last_active_date"`
}

// XPResult is returned by the XP engine after a grant.
type XPResult struct {
	XP        int      `json:"xp"`
	Level     string   `json:"level"`
	LeveledUp bool     `json:"leveled_up"`
	NewBadges []*Badge `json:"new_badges"`
}
