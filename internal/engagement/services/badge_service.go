package services

import (
	"context"
	"time"

	"github.com/architect/classroom-backend/internal/engagement/models"
	"github.com/architect/classroom-backend/internal/engagement/repository"
)

// BadgeService awards every badge whose XP threshold the user has reached and
// does not yet hold. Awards for one check run in a single transaction.
type BadgeService struct {
	tx repository.TxRunner
}

func NewBadgeService(tx repository.TxRunner) *BadgeService {
	return &BadgeService{tx: tx}
}

func (s *BadgeService) CheckAndAward(ctx context.Context, userID uint, currentXP int) ([]*models.Badge, error) {
	var awarded []*models.Badge

	err := s.tx.Transaction(ctx, func(stores repository.TxStores) error {
		eligible, err := stores.Badges.EligibleBadges(ctx, currentXP)
		if err != nil {
			return err
		}

		heldIDs, err := stores.Badges.HeldBadgeIDs(ctx, userID)
		if err != nil {
			return err
		}
		held := make(map[uint]bool, len(heldIDs))
		for _, id := range heldIDs {
			held[id] = true
		}

		now := time.Now().UTC()
		for _, badge := range eligible {
			if held[badge.ID] {
				continue
			}
			award := &models.UserBadge{
				UserID:   userID,
				BadgeID:  badge.ID,
				EarnedAt: now,
			}
			if err := stores.Badges.Award(ctx, award); err != nil {
				return err
			}
			awarded = append(awarded, badge)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return awarded, nil
}
