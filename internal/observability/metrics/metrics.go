package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the constant labels stamped on every metric.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	contractsGenerated *prometheus.CounterVec
	quotaDenied        *prometheus.CounterVec
	quotaConsumed      *prometheus.CounterVec
	ratesPolls         *prometheus.CounterVec
	verdictRequests    *prometheus.CounterVec
	otpRequests        *prometheus.CounterVec
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// New returns the singleton application metrics registry.
func New(cfg Config) *Metrics {
	metricsOnce.Do(func() {
		metrics = newMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return metrics
}

// ResetForTest resets the metrics singleton for tests.
func ResetForTest() {
	metricsOnce = sync.Once{}
	metrics = nil
}

func newMetrics(registerer prometheus.Registerer, cfg Config) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "amanah"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	contractsGenerated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "amanah_contracts_generated_total",
		Help:        "Contracts generated by contract type.",
		ConstLabels: constLabels,
	}, []string{"contract_type"})
	quotaDenied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "amanah_quota_denied_total",
		Help:        "Generation requests denied because the free quota ran out.",
		ConstLabels: constLabels,
	}, []string{"identity_kind"})
	quotaConsumed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "amanah_quota_consumed_total",
		Help:        "Free-quota units consumed by identity kind.",
		ConstLabels: constLabels,
	}, []string{"identity_kind"})
	ratesPolls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "amanah_rates_polls_total",
		Help:        "Metal rates poll outcomes.",
		ConstLabels: constLabels,
	}, []string{"outcome"})
	verdictRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "amanah_verdict_requests_total",
		Help:        "Investment verdict requests by outcome.",
		ConstLabels: constLabels,
	}, []string{"outcome"})
	otpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "amanah_otp_requests_total",
		Help:        "Password reset OTP requests by outcome.",
		ConstLabels: constLabels,
	}, []string{"outcome"})

	registerer.MustRegister(
		contractsGenerated,
		quotaDenied,
		quotaConsumed,
		ratesPolls,
		verdictRequests,
		otpRequests,
	)

	return &Metrics{
		contractsGenerated: contractsGenerated,
		quotaDenied:        quotaDenied,
		quotaConsumed:      quotaConsumed,
		ratesPolls:         ratesPolls,
		verdictRequests:    verdictRequests,
		otpRequests:        otpRequests,
	}
}

// IncContractGenerated increments the generation counter for a contract type.
func (m *Metrics) IncContractGenerated(contractType string) {
	if m == nil || m.contractsGenerated == nil {
		return
	}
	m.contractsGenerated.WithLabelValues(strings.TrimSpace(contractType)).Inc()
}

// IncQuotaDenied increments the quota denial counter.
func (m *Metrics) IncQuotaDenied(identityKind string) {
	if m == nil || m.quotaDenied == nil {
		return
	}
	m.quotaDenied.WithLabelValues(strings.TrimSpace(identityKind)).Inc()
}

// IncQuotaConsumed increments the quota consumption counter.
func (m *Metrics) IncQuotaConsumed(identityKind string) {
	if m == nil || m.quotaConsumed == nil {
		return
	}
	m.quotaConsumed.WithLabelValues(strings.TrimSpace(identityKind)).Inc()
}

// IncRatesPoll records a rates poll outcome ("ok", "fallback").
func (m *Metrics) IncRatesPoll(outcome string) {
	if m == nil || m.ratesPolls == nil {
		return
	}
	m.ratesPolls.WithLabelValues(strings.TrimSpace(outcome)).Inc()
}

// IncVerdictRequest records a verdict request outcome ("ok", "upstream_error", "parse_error").
func (m *Metrics) IncVerdictRequest(outcome string) {
	if m == nil || m.verdictRequests == nil {
		return
	}
	m.verdictRequests.WithLabelValues(strings.TrimSpace(outcome)).Inc()
}

// IncOTPRequest records an OTP request outcome ("sent", "capped", "send_failed").
func (m *Metrics) IncOTPRequest(outcome string) {
	if m == nil || m.otpRequests == nil {
		return
	}
	m.otpRequests.WithLabelValues(strings.TrimSpace(outcome)).Inc()
}
