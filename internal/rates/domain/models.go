// Package domain contains the precious-metal rate snapshot types.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// OunceToGram converts troy-ounce quotes to per-gram prices.
var OunceToGram = decimal.NewFromFloat(31.1035)

var (
	ErrNoSnapshot = errors.New("no rate snapshot available")
	// ErrUpstream marks failures of the external price API.
	ErrUpstream = errors.New("rates upstream unavailable")
)

// RateSnapshot is one row of the append-only rates log. Gold and silver are
// per-gram prices in the configured base currency, rounded to 2 decimals.
type RateSnapshot struct {
	ID         snowflake.ID    `gorm:"primaryKey"`
	Gold       decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Silver     decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	FetchedAt  time.Time       `gorm:"column:fetched_at;not null;index"`
	IsFallback bool            `gorm:"column:is_fallback;not null;default:false"`
}

// TableName sets the database table name.
func (RateSnapshot) TableName() string { return "metal_rates" }

// Quote is the raw per-ounce pair returned by the upstream API.
type Quote struct {
	GoldPerOunce   float64
	SilverPerOunce float64
}

// Client fetches spot prices from the external API.
type Client interface {
	FetchLatest(ctx context.Context) (*Quote, error)
}

// Repository persists rate snapshots.
type Repository interface {
	Append(ctx context.Context, snapshot *RateSnapshot) error
	Latest(ctx context.Context) (*RateSnapshot, error)
}

// Service refreshes and serves the rate cache.
type Service interface {
	// RefreshOnce fetches current prices and appends a snapshot. On upstream
	// failure it re-inserts the last known values flagged as fallback.
	RefreshOnce(ctx context.Context) error
	Latest(ctx context.Context) (*RateSnapshot, error)
}
