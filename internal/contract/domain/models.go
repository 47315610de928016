// Package domain contains the contract generation types.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// GenerationRecord is the append-only log of produced contracts.
type GenerationRecord struct {
	ID           snowflake.ID      `gorm:"primaryKey"`
	Identity     string            `gorm:"type:text;not null;index"`
	ContractType string            `gorm:"column:contract_type;type:text;not null"`
	UsedFields   datatypes.JSONMap `gorm:"column:used_fields;type:jsonb"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (GenerationRecord) TableName() string { return "contract_generations" }

// GenerateRequest is one contract generation call.
type GenerateRequest struct {
	Identity     string
	Unlimited    bool
	ContractType string
	Fields       map[string]string
}

// GenerateResult carries the rendered document and the remaining quota.
type GenerateResult struct {
	Contract  string
	Remaining int
	Unlimited bool
}

// Repository persists generation records.
type Repository interface {
	Record(ctx context.Context, record *GenerationRecord) error
}

// Service generates contracts behind the free-usage quota.
type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}
