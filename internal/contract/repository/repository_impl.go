package repository

import (
	"context"

	"github.com/halaltools/amanah/internal/contract/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Record(ctx context.Context, record *domain.GenerationRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}
