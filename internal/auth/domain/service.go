package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Service exposes account operations.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*LoginResult, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Me(ctx context.Context, id snowflake.ID) (*Profile, error)
	DeleteAccount(ctx context.Context, actor snowflake.ID, target snowflake.ID) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}
