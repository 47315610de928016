// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User represents an account on the platform.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Email        string       `gorm:"type:text;not null;uniqueIndex"`
	Name         string       `gorm:"type:text;not null"`
	PasswordHash string       `gorm:"column:password_hash;type:text;not null"`
	PhoneNumber  string       `gorm:"column:phone_number;type:text"`
	Country      string       `gorm:"type:text"`
	IsPremium    bool         `gorm:"column:is_premium;not null;default:false"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// PasswordReset is one issued OTP code for a password reset.
type PasswordReset struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Email     string       `gorm:"type:text;not null;index"`
	Code      string       `gorm:"type:text;not null"`
	ExpiresAt time.Time    `gorm:"column:expires_at;not null"`
	UsedAt    *time.Time   `gorm:"column:used_at"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (PasswordReset) TableName() string { return "password_resets" }

// Profile is the user shape returned to clients.
type Profile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Country     string `json:"country,omitempty"`
	IsPremium   bool   `json:"isPremium"`
}

// ProfileOf maps a user row to its client shape.
func ProfileOf(u *User) Profile {
	return Profile{
		ID:          u.ID.String(),
		Email:       u.Email,
		Name:        u.Name,
		PhoneNumber: u.PhoneNumber,
		Country:     u.Country,
		IsPremium:   u.IsPremium,
	}
}

// SignupRequest carries the fields accepted at registration.
type SignupRequest struct {
	Email       string
	Password    string
	Name        string
	PhoneNumber string
	Country     string
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResult is the outcome of a successful authentication.
type LoginResult struct {
	User  Profile
	Token string
}
