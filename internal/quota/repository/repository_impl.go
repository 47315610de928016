package repository

import (
	"context"
	"errors"
	"time"

	"github.com/halaltools/amanah/internal/quota/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Find(ctx context.Context, identity string) (*domain.UsageAccount, error) {
	var account domain.UsageAccount
	err := r.db.WithContext(ctx).Where("identity = ?", identity).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repo) Create(ctx context.Context, account *domain.UsageAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// ConsumeOne is a single conditional UPDATE so concurrent callers can never
// drive remaining_uses negative.
func (r *repo) ConsumeOne(ctx context.Context, identity string, usedAt time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(
		"UPDATE usage_accounts SET remaining_uses = remaining_uses - 1, last_used_at = ?, updated_at = ? WHERE identity = ? AND remaining_uses > 0",
		usedAt, usedAt, identity,
	)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *repo) Reset(ctx context.Context, identity string, remaining int, resetAt time.Time) error {
	return r.db.WithContext(ctx).Exec(
		"UPDATE usage_accounts SET remaining_uses = ?, last_reset = ?, updated_at = ? WHERE identity = ?",
		remaining, resetAt, resetAt, identity,
	).Error
}
