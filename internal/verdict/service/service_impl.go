package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/halaltools/amanah/internal/observability/metrics"
	"github.com/halaltools/amanah/internal/verdict/domain"
	"go.uber.org/zap"
)

const promptFormat = `You are a qualified Islamic finance expert.

Evaluate the investment below and give your answer in this exact format:

Verdict: Halal / Haram / Mashbooh
Reason: [2-4 sentences explaining why. Be clear, informative, and use Islamic finance terminology like Riba, Gharar, unethical sectors, etc.]

Avoid soft/unclear phrases. Use confident tone. Respond with only those 2 lines and include a newline between them.

Investment Details:
- Name: %s
- Type: %s
- Description: %s
- Riba Involved: %s
- Income Nature: %s
- Industry: %s
- Transparency: %s
- Income Source: %s
- Ethical Concerns: %s
`

type Service struct {
	log     *zap.Logger
	client  domain.Client
	metrics *metrics.Metrics
}

func New(log *zap.Logger, client domain.Client, m *metrics.Metrics) domain.Service {
	return &Service{
		log:     log.Named("verdict.service"),
		client:  client,
		metrics: m,
	}
}

func (s *Service) Evaluate(ctx context.Context, inv domain.Investment) (*domain.Evaluation, error) {
	reply, err := s.client.Complete(ctx, BuildPrompt(inv))
	if err != nil {
		s.metrics.IncVerdictRequest("upstream_error")
		return nil, err
	}

	eval := Parse(reply)
	if eval.Verdict == "" {
		s.metrics.IncVerdictRequest("parse_error")
		s.log.Warn("model reply did not match expected format")
	} else {
		s.metrics.IncVerdictRequest("ok")
	}
	return eval, nil
}

// BuildPrompt renders the evaluation prompt for one investment.
func BuildPrompt(inv domain.Investment) string {
	description := strings.TrimSpace(inv.Description)
	if description == "" {
		description = "N/A"
	}
	return fmt.Sprintf(promptFormat,
		inv.Name, inv.Type, description, inv.Riba, inv.IncomeNature,
		inv.Industry, inv.Transparency, inv.IncomeSource, inv.Ethics,
	)
}

// Parse extracts the two-line Verdict/Reason format. A reply that does not
// match comes back with an empty verdict and the raw text intact.
func Parse(reply string) *domain.Evaluation {
	eval := &domain.Evaluation{Raw: reply}

	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := cutPrefixFold(line, "Verdict:"); ok && eval.Verdict == "" {
			eval.Verdict = strings.TrimSpace(rest)
		} else if rest, ok := cutPrefixFold(line, "Reason:"); ok && eval.Reason == "" {
			eval.Reason = strings.TrimSpace(rest)
		}
	}

	// A verdict without a reason is treated as unparsed.
	if eval.Verdict == "" || eval.Reason == "" {
		eval.Verdict = ""
		eval.Reason = ""
	}
	return eval
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return "", false
}
