package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Repository persists users and password resets.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id snowflake.ID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
	DeleteCascade(ctx context.Context, id snowflake.ID) error

	CreateReset(ctx context.Context, reset *PasswordReset) error
	LatestReset(ctx context.Context, email string) (*PasswordReset, error)
	CountResetsSince(ctx context.Context, email string, since time.Time) (int64, error)
	MarkResetUsed(ctx context.Context, id snowflake.ID, usedAt time.Time) error
}
