package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/halaltools/amanah/internal/clock"
	"github.com/halaltools/amanah/internal/config"
	"github.com/halaltools/amanah/internal/observability/metrics"
	"github.com/halaltools/amanah/internal/quota/domain"
	"github.com/halaltools/amanah/pkg/db"
	"go.uber.org/zap"
)

type Service struct {
	log     *zap.Logger
	repo    domain.Repository
	limits  *config.LimitsHolder
	clock   clock.Clock
	metrics *metrics.Metrics
}

func New(
	log *zap.Logger,
	repo domain.Repository,
	limits *config.LimitsHolder,
	clk clock.Clock,
	m *metrics.Metrics,
) domain.Service {
	return &Service{
		log:     log.Named("quota.service"),
		repo:    repo,
		limits:  limits,
		clock:   clk,
		metrics: m,
	}
}

func (s *Service) CheckAndConsume(ctx context.Context, identity string, unlimited bool) (domain.Decision, error) {
	if unlimited {
		return domain.Decision{Allowed: true, Unlimited: true}, nil
	}

	maxFree := s.limits.Current().MaxFreeGenerations
	now := s.clock.Now()

	account, err := s.repo.Find(ctx, identity)
	if errors.Is(err, domain.ErrAccountNotFound) {
		created, createErr := s.createFirstUse(ctx, identity, maxFree)
		if createErr != nil {
			return domain.Decision{}, createErr
		}
		if created {
			s.metrics.IncQuotaConsumed(identityKind(identity))
			return domain.Decision{Allowed: true, Remaining: maxFree - 1}, nil
		}
		// Lost the insert race; the row exists now.
		account, err = s.repo.Find(ctx, identity)
	}
	if err != nil {
		return domain.Decision{}, err
	}

	if monthChanged(account.LastReset, now) {
		if err := s.repo.Reset(ctx, identity, maxFree, now); err != nil {
			return domain.Decision{}, err
		}
	}

	consumed, err := s.repo.ConsumeOne(ctx, identity, now)
	if err != nil {
		return domain.Decision{}, err
	}
	if !consumed {
		s.metrics.IncQuotaDenied(identityKind(identity))
		return domain.Decision{Allowed: false, Remaining: 0}, nil
	}

	account, err = s.repo.Find(ctx, identity)
	if err != nil {
		return domain.Decision{}, err
	}

	s.metrics.IncQuotaConsumed(identityKind(identity))
	return domain.Decision{Allowed: true, Remaining: account.RemainingUses}, nil
}

func (s *Service) Peek(ctx context.Context, identity string, unlimited bool) (domain.Decision, error) {
	if unlimited {
		return domain.Decision{Allowed: true, Unlimited: true}, nil
	}

	maxFree := s.limits.Current().MaxFreeGenerations
	now := s.clock.Now()

	account, err := s.repo.Find(ctx, identity)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return domain.Decision{Allowed: true, Remaining: maxFree}, nil
	}
	if err != nil {
		return domain.Decision{}, err
	}

	if monthChanged(account.LastReset, now) {
		if err := s.repo.Reset(ctx, identity, maxFree, now); err != nil {
			return domain.Decision{}, err
		}
		return domain.Decision{Allowed: true, Remaining: maxFree}, nil
	}

	return domain.Decision{
		Allowed:   account.RemainingUses > 0,
		Remaining: account.RemainingUses,
	}, nil
}

func (s *Service) createFirstUse(ctx context.Context, identity string, maxFree int) (bool, error) {
	now := s.clock.Now()
	account := &domain.UsageAccount{
		Identity:      identity,
		RemainingUses: maxFree - 1,
		LastReset:     now,
		LastUsedAt:    now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func monthChanged(lastReset, now time.Time) bool {
	return lastReset.Month() != now.Month() || lastReset.Year() != now.Year()
}

func identityKind(identity string) string {
	if kind, _, ok := strings.Cut(identity, ":"); ok {
		return kind
	}
	return "unknown"
}
