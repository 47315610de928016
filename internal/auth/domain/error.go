package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrResetNotFound      = errors.New("no pending password reset")
	ErrResetExpired       = errors.New("reset code expired")
	ErrResetCodeMismatch  = errors.New("reset code mismatch")
	ErrOTPDailyCap        = errors.New("daily reset request limit reached")
	ErrForbidden          = errors.New("forbidden")
)
