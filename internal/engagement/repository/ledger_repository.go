package repository

import (
	"context"

	"github.com/architect/classroom-backend/internal/common/errors"
	"github.com/architect/classroom-backend/internal/engagement/models"
	"gorm.io/gorm"
)

// LedgerRepository is the append-only XP ledger store. Entries are never
// updated or deleted.
type LedgerRepository interface {
	Append(ctx context.Context, entry *models.XpTransaction) error
	SumForUser(ctx context.Context, userID uint) (int, error)
	ListForUser(ctx context.Context, userID uint, limit int) ([]*models.XpTransaction, error)
}

type GormLedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

func (r *GormLedgerRepository) Append(ctx context.Context, entry *models.XpTransaction) error {
	result := r.db.WithContext(ctx).Create(entry)
	if result.Error != nil {
		return errors.StoreUnavailable(result.Error.Error())
	}
	return nil
}

func (r *GormLedgerRepository) SumForUser(ctx context.Context, userID uint) (int, error) {
	var sum *int
	result := r.db.WithContext(ctx).
		Model(&models.XpTransaction{}).
		Where("user_id = ?", userID).
		Select("SUM(amount)").
		Scan(&sum)
	if result.Error != nil {
		return 0, errors.StoreUnavailable(result.Error.Error())
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

func (r *GormLedgerRepository) ListForUser(ctx context.Context, userID uint, limit int) ([]*models.XpTransaction, error) {
	var entries []*models.XpTransaction
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries)
	if result.Error != nil {
		return nil, errors.StoreUnavailable(result.Error.Error())
	}
	return entries, nil
}
