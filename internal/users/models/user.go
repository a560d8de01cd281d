package models

import (
	"time"
)

// Roles
const (
	RoleLearner = "Learner"
	RoleAdmin   = "Admin"
)

// Proficiency levels, derived from XP. Never stored independently of the
// XP-to-level mapping.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// User holds identity plus gamification state. Streak fields are owned by the
// streak engine, xp and level by the XP engine; account lifecycle is managed
// elsewhere.
type User struct {
	ID       uint   `gorm:"primaryKey;column:user_id" json:"user_id"`
	Username string `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Role     string `gorm:"size:20;not null;default:Learner" json:"role"`
	Level    string `gorm:"size:20;not null;default:Beginner" json:"level"`

	XP int `gorm:"not null;default:0" json:"xp"`

	// Date-only, "YYYY-MM-DD" in UTC. Nil until the first recorded activity.
	LastActiveDate  *string `gorm:"size:10" json:"last_active_date,omitempty"`
	CurrentStreak   int     `gorm:"not null;default:0" json:"current_streak"`
	HighestStreak   int     `gorm:"not null;default:0" json:"highest_streak"`
	TotalActiveDays int     `gorm:"not null;default:0" json:"total_active_days"`

	AvatarURL string `json:"avatar_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
