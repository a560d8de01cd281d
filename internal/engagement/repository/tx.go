package repository

import (
	"context"

	userrepo "github.com/architect/classroom-backend/internal/users/repository"
	"gorm.io/gorm"
)

// TxStores bundles the repositories visible inside one store transaction.
type TxStores struct {
	Users  userrepo.UserRepository
	Ledger LedgerRepository
	Badges BadgeRepository
}

// TxRunner executes fn atomically: every repository call inside fn commits or
// rolls back as one unit. Same-key write serialization relies on the store's
// transaction isolation, not application locks.
type TxRunner interface {
	Transaction(ctx context.Context, fn func(s TxStores) error) error
}

type GormTxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) *GormTxRunner {
	return &GormTxRunner{db: db}
}

func (r *GormTxRunner) Transaction(ctx context.Context, fn func(s TxStores) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(TxStores{
			Users:  userrepo.NewUserRepository(tx),
			Ledger: NewLedgerRepository(tx),
			Badges: NewBadgeRepository(tx),
		})
	})
}
