// Package domain contains the free-usage ledger types.
package domain

import (
	"context"
	"time"
)

// UsageAccount tracks remaining free generations for one identity. The
// identity is "user:<id>" for authenticated callers and "ip:<addr>" otherwise.
type UsageAccount struct {
	Identity      string    `gorm:"primaryKey;type:text"`
	RemainingUses int       `gorm:"column:remaining_uses;not null"`
	IsUnlimited   bool      `gorm:"column:is_unlimited;not null;default:false"`
	LastReset     time.Time `gorm:"column:last_reset;not null"`
	LastUsedAt    time.Time `gorm:"column:last_used_at;not null"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (UsageAccount) TableName() string { return "usage_accounts" }

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed   bool
	Remaining int
	Unlimited bool
}

// Repository persists usage accounts.
type Repository interface {
	Find(ctx context.Context, identity string) (*UsageAccount, error)
	Create(ctx context.Context, account *UsageAccount) error
	// ConsumeOne decrements remaining_uses by one if any remain, stamping
	// last_used_at. Returns false when no use was available.
	ConsumeOne(ctx context.Context, identity string, usedAt time.Time) (bool, error)
	// Reset refills remaining_uses and stamps last_reset.
	Reset(ctx context.Context, identity string, remaining int, resetAt time.Time) error
}

// Service is the quota ledger API.
type Service interface {
	// CheckAndConsume spends one free use for the identity, or reports the
	// quota exhausted. Unlimited identities are never charged.
	CheckAndConsume(ctx context.Context, identity string, unlimited bool) (Decision, error)
	// Peek reports the current balance without consuming, applying the same
	// lazy monthly refill as CheckAndConsume.
	Peek(ctx context.Context, identity string, unlimited bool) (Decision, error)
}
