package models

// RankedEntry is one leaderboard row. Rank is dense and 1-based; ties on all
// sort keys keep a stable relative order across calls.
type RankedEntry struct {
	Rank            int    `json:"rank"`
	StudentID       uint   `json:"student_id"`
	Name            string `json:"name"`
	Level           string `json:"level"`
	XP              int    `json:"xp"`
	CurrentStreak   int    `json:"current_streak"`
	HighestStreak   int    `json:"highest_streak"`
	TotalActiveDays int    `json:"total_active_days"`
}

// ViewerStats locates the requesting learner inside the ranking.
type ViewerStats struct {
	Rank              int `json:"rank"`
	XP                int `json:"xp"`
	Position          int `json:"position"`
	TotalParticipants int `json:"total_participants"`
}
