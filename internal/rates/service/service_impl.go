package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/halaltools/amanah/internal/clock"
	"github.com/halaltools/amanah/internal/observability/metrics"
	"github.com/halaltools/amanah/internal/rates/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service struct {
	log     *zap.Logger
	client  domain.Client
	repo    domain.Repository
	clock   clock.Clock
	genID   *snowflake.Node
	metrics *metrics.Metrics
}

func New(
	log *zap.Logger,
	client domain.Client,
	repo domain.Repository,
	clk clock.Clock,
	genID *snowflake.Node,
	m *metrics.Metrics,
) domain.Service {
	return &Service{
		log:     log.Named("rates.service"),
		client:  client,
		repo:    repo,
		clock:   clk,
		genID:   genID,
		metrics: m,
	}
}

func (s *Service) RefreshOnce(ctx context.Context) error {
	quote, err := s.client.FetchLatest(ctx)
	if err != nil {
		return s.insertFallback(ctx, err)
	}

	snapshot := &domain.RateSnapshot{
		ID:         s.genID.Generate(),
		Gold:       perGram(quote.GoldPerOunce),
		Silver:     perGram(quote.SilverPerOunce),
		FetchedAt:  s.clock.Now(),
		IsFallback: false,
	}
	if err := s.repo.Append(ctx, snapshot); err != nil {
		return err
	}

	s.metrics.IncRatesPoll("ok")
	s.log.Info("rates stored",
		zap.String("gold", snapshot.Gold.String()),
		zap.String("silver", snapshot.Silver.String()),
	)
	return nil
}

func (s *Service) Latest(ctx context.Context) (*domain.RateSnapshot, error) {
	return s.repo.Latest(ctx)
}

// insertFallback duplicates the last known snapshot flagged as fallback so
// readers keep getting an answer while the upstream is down.
func (s *Service) insertFallback(ctx context.Context, cause error) error {
	s.log.Warn("rates fetch failed, using last known values", zap.Error(cause))

	last, err := s.repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoSnapshot) {
			s.log.Error("no fallback rates available")
			return cause
		}
		return err
	}

	snapshot := &domain.RateSnapshot{
		ID:         s.genID.Generate(),
		Gold:       last.Gold,
		Silver:     last.Silver,
		FetchedAt:  s.clock.Now(),
		IsFallback: true,
	}
	if err := s.repo.Append(ctx, snapshot); err != nil {
		return err
	}

	s.metrics.IncRatesPoll("fallback")
	return nil
}

func perGram(perOunce float64) decimal.Decimal {
	return decimal.NewFromFloat(perOunce).Div(domain.OunceToGram).Round(2)
}
