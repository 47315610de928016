package repository

import (
	"context"
	"errors"

	"github.com/halaltools/amanah/internal/rates/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Append(ctx context.Context, snapshot *domain.RateSnapshot) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

func (r *repo) Latest(ctx context.Context) (*domain.RateSnapshot, error) {
	var snapshot domain.RateSnapshot
	err := r.db.WithContext(ctx).Order("fetched_at DESC").First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
