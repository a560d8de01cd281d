package services

import (
	"context"
	"time"

	"github.com/architect/classroom-backend/internal/common/metrics"
	"github.com/architect/classroom-backend/internal/engagement/models"
	"github.com/architect/classroom-backend/internal/engagement/repository"
	usermodels "github.com/architect/classroom-backend/internal/users/models"
	"go.uber.org/zap"
)

// XP thresholds for derived proficiency levels. Non-overlapping by
// construction: a user is Advanced from 5000, Intermediate from 1000.
const (
	AdvancedXPThreshold     = 5000
	IntermediateXPThreshold = 1000
)

// LevelForXP derives the proficiency level from cumulative XP. Level is never
// stored independently of this mapping.
func LevelForXP(xp int) string {
	switch {
	case xp >= AdvancedXPThreshold:
		return usermodels.LevelAdvanced
	case xp >= IntermediateXPThreshold:
		return usermodels.LevelIntermediate
	default:
		return usermodels.LevelBeginner
	}
}

// BadgeAwarder is the post-commit badge hook. Its failure never affects XP
// correctness.
type BadgeAwarder interface {
	CheckAndAward(ctx context.Context, userID uint, currentXP int) ([]*models.Badge, error)
}

// XPService appends ledger entries and keeps user XP and derived level in
// sync. Ledger insert and user update happen in one store transaction, which
// also serializes concurrent grants for the same user.
type XPService struct {
	tx     repository.TxRunner
	ledger repository.LedgerRepository
	badges BadgeAwarder
	log    *zap.Logger
}

func NewXPService(tx repository.TxRunner, ledger repository.LedgerRepository, badges BadgeAwarder, log *zap.Logger) *XPService {
	return &XPService{tx: tx, ledger: ledger, badges: badges, log: log}
}

// GrantXP applies a signed XP amount for the user. Negative amounts are
// accepted for corrections; callers own amount sanity.
func (s *XPService) GrantXP(ctx context.Context, userID uint, amount int, reason, activityType string) (*models.XPResult, error) {
	var result models.XPResult

	err := s.tx.Transaction(ctx, func(stores repository.TxStores) error {
		// The increment happens in SQL so two concurrent grants for the same
		// user serialize on the row lock instead of losing one write. The
		// re-read below sees the incremented value inside this transaction.
		if err := stores.Users.AddXP(ctx, userID, amount); err != nil {
			return err
		}
		user, err := stores.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		levelBefore := LevelForXP(user.XP - amount)
		levelAfter := LevelForXP(user.XP)
		user.Level = levelAfter

		if err := stores.Users.Save(ctx, user); err != nil {
			return err
		}

		// Ledger entry records the raw amount regardless of any caller-side
		// clamping; cumulative XP must always equal the ledger sum.
		entry := &models.XpTransaction{
			UserID:       userID,
			Amount:       amount,
			Reason:       reason,
			ActivityType: activityType,
			Timestamp:    time.Now().UTC(),
		}
		if err := stores.Ledger.Append(ctx, entry); err != nil {
			return err
		}

		result = models.XPResult{
			XP:        user.XP,
			Level:     levelAfter,
			LeveledUp: levelBefore != levelAfter,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Counters only go up; corrections feed the deduction counter instead.
	if amount >= 0 {
		metrics.XPGranted.Add(float64(amount))
	} else {
		metrics.XPDeducted.Add(float64(-amount))
	}

	// Badge hook runs after commit; informational only.
	result.NewBadges = []*models.Badge{}
	if s.badges != nil {
		awarded, err := s.badges.CheckAndAward(ctx, userID, result.XP)
		if err != nil {
			s.log.Warn("badge award check failed",
				zap.Uint("user_id", userID),
				zap.Error(err),
			)
		} else if len(awarded) > 0 {
			result.NewBadges = awarded
		}
	}

	return &result, nil
}

// GetXP returns the user's current cumulative XP.
func (s *XPService) GetXP(ctx context.Context, userID uint) (int, error) {
	var xp int
	err := s.tx.Transaction(ctx, func(stores repository.TxStores) error {
		user, err := stores.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		xp = user.XP
		return nil
	})
	if err != nil {
		return 0, err
	}
	return xp, nil
}

// LedgerSum recomputes cumulative XP from the ledger. Used by integrity
// checks; divergence from the user row is a data bug.
func (s *XPService) LedgerSum(ctx context.Context, userID uint) (int, error) {
	return s.ledger.SumForUser(ctx, userID)
}

// LedgerHistory returns the user's most recent grant records, newest first.
func (s *XPService) LedgerHistory(ctx context.Context, userID uint, limit int) ([]*models.XpTransaction, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.ledger.ListForUser(ctx, userID, limit)
}
