package services

import (
	"context"
	"time"

	"github.com/architect/classroom-backend/internal/common/metrics"
	"github.com/architect/classroom-backend/internal/engagement/models"
	usermodels "github.com/architect/classroom-backend/internal/users/models"
	userrepo "github.com/architect/classroom-backend/internal/users/repository"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// StreakService computes daily-activity streak transitions. All calendar math
// is done in UTC so client timezones cannot skew day boundaries.
type StreakService struct {
	users userrepo.UserRepository
	log   *zap.Logger
	now   func() time.Time
}

func NewStreakService(users userrepo.UserRepository, log *zap.Logger) *StreakService {
	return &StreakService{
		users: users,
		log:   log,
		now:   time.Now,
	}
}

// WithClock overrides the clock. Used by tests to pin calendar days.
func (s *StreakService) WithClock(now func() time.Time) *StreakService {
	s.now = now
	return s
}

// RecordActivity applies one streak transition for the user. Calling it again
// on the same UTC calendar day is a no-op.
func (s *StreakService) RecordActivity(ctx context.Context, userID uint) (*models.StreakState, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// One clock reading per transition; two reads could straddle midnight
	// and produce an inconsistent today/yesterday pair.
	now := s.now().UTC()
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	if user.LastActiveDate != nil && *user.LastActiveDate == today {
		// Already active today: idempotent within the day.
		metrics.StreakUpdates.WithLabelValues("noop").Inc()
		return streakState(user), nil
	}

	switch {
	case user.LastActiveDate == nil:
		// First-ever activity.
		user.CurrentStreak = 1
		if user.HighestStreak < 1 {
			user.HighestStreak = 1
		}
		user.TotalActiveDays++
		metrics.StreakUpdates.WithLabelValues("started").Inc()
	case *user.LastActiveDate == yesterday:
		user.CurrentStreak++
		if user.CurrentStreak > user.HighestStreak {
			user.HighestStreak = user.CurrentStreak
		}
		user.TotalActiveDays++
		metrics.StreakUpdates.WithLabelValues("extended").Inc()
	default:
		// Gap of two or more days: reset, highest streak is preserved.
		user.CurrentStreak = 1
		user.TotalActiveDays++
		metrics.StreakUpdates.WithLabelValues("reset").Inc()
	}

	user.LastActiveDate = &today
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	return streakState(user), nil
}

// RecordActivityAsync runs RecordActivity detached from the calling request.
// The sign-in that triggers it never waits on, or fails because of, the
// streak update; errors are logged and counted.
func (s *StreakService) RecordActivityAsync(userID uint) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := s.RecordActivity(ctx, userID); err != nil {
			metrics.StreakFailures.Inc()
			s.log.Warn("streak update failed",
				zap.Uint("user_id", userID),
				zap.Error(err),
			)
		}
	}()
}

// CurrentState reads the user's streak fields without touching them.
func (s *StreakService) CurrentState(ctx context.Context, userID uint) (*models.StreakState, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return streakState(user), nil
}

func streakState(u *usermodels.User) *models.StreakState {
	last := ""
	if u.LastActiveDate != nil {
		last = *u.LastActiveDate
	}
	return &models.StreakState{
		CurrentStreak:   u.CurrentStreak,
		HighestStreak:   u.HighestStreak,
		TotalActiveDays: u.TotalActiveDays,
		LastActiveDate:  last,
	}
}
