package services

import (
	"context"
	"fmt"
	"sort"

	classroomrepo "github.com/architect/classroom-backend/internal/classroom/repository"
	"github.com/architect/classroom-backend/internal/common/errors"
	"github.com/architect/classroom-backend/internal/leaderboard/models"
	usermodels "github.com/architect/classroom-backend/internal/users/models"
	userrepo "github.com/architect/classroom-backend/internal/users/repository"
	"github.com/google/uuid"
)

// LeaderboardService aggregates per-classroom engagement metrics into a total
// order. The canonical ordering everywhere a leaderboard is rendered: xp
// descending, then highest streak, then current streak. XP is the unifying
// progress metric, so it leads.
type LeaderboardService struct {
	memberships classroomrepo.MembershipRepository
	users       userrepo.UserRepository
}

func NewLeaderboardService(memberships classroomrepo.MembershipRepository, users userrepo.UserRepository) *LeaderboardService {
	return &LeaderboardService{memberships: memberships, users: users}
}

// Rank orders the classroom's enrolled learners. Membership rows whose user
// record is missing are excluded rather than failing the aggregate.
func (s *LeaderboardService) Rank(ctx context.Context, classroomID uuid.UUID) ([]*models.RankedEntry, error) {
	studentIDs, err := s.memberships.LearnerIDs(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	entries := make([]*models.RankedEntry, 0, len(studentIDs))
	for _, id := range studentIDs {
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			if errors.IsCode(err, errors.CodeNotFound) {
				// Referential anomaly: membership row without a user.
				continue
			}
			return nil, err
		}
		if user.Role != usermodels.RoleLearner {
			continue
		}
		entries = append(entries, &models.RankedEntry{
			StudentID:       user.ID,
			Name:            displayName(user),
			Level:           user.Level,
			XP:              user.XP,
			CurrentStreak:   user.CurrentStreak,
			HighestStreak:   user.HighestStreak,
			TotalActiveDays: user.TotalActiveDays,
		})
	}

	// Stable sort keeps fully-tied entries in membership order, so repeated
	// calls over the same data produce the same sequence.
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.XP != b.XP {
			return a.XP > b.XP
		}
		if a.HighestStreak != b.HighestStreak {
			return a.HighestStreak > b.HighestStreak
		}
		return a.CurrentStreak > b.CurrentStreak
	})

	for i, entry := range entries {
		entry.Rank = i + 1
	}
	return entries, nil
}

// RankWithViewer ranks the classroom and additionally locates the viewer.
// Stats are nil when the viewer is not on the board.
func (s *LeaderboardService) RankWithViewer(ctx context.Context, classroomID uuid.UUID, viewerID uint) ([]*models.RankedEntry, *models.ViewerStats, error) {
	entries, err := s.Rank(ctx, classroomID)
	if err != nil {
		return nil, nil, err
	}

	for i, entry := range entries {
		if entry.StudentID == viewerID {
			return entries, &models.ViewerStats{
				Rank:              entry.Rank,
				XP:                entry.XP,
				Position:          i + 1,
				TotalParticipants: len(entries),
			}, nil
		}
	}
	return entries, nil, nil
}

func displayName(u *usermodels.User) string {
	if u.Username != "" {
		return u.Username
	}
	return fmt.Sprintf("Student %d", u.ID)
}
