package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/halaltools/amanah/internal/clock"
	"github.com/halaltools/amanah/internal/contract/domain"
	"github.com/halaltools/amanah/internal/contract/render"
	"github.com/halaltools/amanah/internal/contract/template"
	"github.com/halaltools/amanah/internal/observability/metrics"
	quotadomain "github.com/halaltools/amanah/internal/quota/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Service struct {
	log      *zap.Logger
	renderer *render.Renderer
	quota    quotadomain.Service
	repo     domain.Repository
	clock    clock.Clock
	genID    *snowflake.Node
	metrics  *metrics.Metrics
}

func New(
	log *zap.Logger,
	renderer *render.Renderer,
	quota quotadomain.Service,
	repo domain.Repository,
	clk clock.Clock,
	genID *snowflake.Node,
	m *metrics.Metrics,
) domain.Service {
	return &Service{
		log:      log.Named("contract.service"),
		renderer: renderer,
		quota:    quota,
		repo:     repo,
		clock:    clk,
		genID:    genID,
		metrics:  m,
	}
}

// Generate spends one quota unit, renders the document and logs the event.
// The quota check runs before the type lookup, matching the legacy order.
func (s *Service) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateResult, error) {
	decision, err := s.quota.CheckAndConsume(ctx, req.Identity, req.Unlimited)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, quotadomain.ErrQuotaExhausted
	}

	doc, err := s.renderer.Render(req.ContractType, template.Fields(req.Fields))
	if err != nil {
		return nil, err
	}

	fields := make(datatypes.JSONMap, len(req.Fields))
	for k, v := range req.Fields {
		fields[k] = v
	}
	record := &domain.GenerationRecord{
		ID:           s.genID.Generate(),
		Identity:     req.Identity,
		ContractType: req.ContractType,
		UsedFields:   fields,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.Record(ctx, record); err != nil {
		// The document is already rendered; losing the log row should not
		// fail the request.
		s.log.Warn("generation log write failed", zap.Error(err))
	}

	s.metrics.IncContractGenerated(req.ContractType)
	return &domain.GenerateResult{
		Contract:  doc,
		Remaining: decision.Remaining,
		Unlimited: decision.Unlimited,
	}, nil
}
