package scheduler

import (
	"context"
	"time"

	"github.com/halaltools/amanah/internal/config"
	ratesdomain "github.com/halaltools/amanah/internal/rates/domain"
	"gorm.io/gorm"
)

// RatesRefreshJob polls the spot price API and appends a snapshot.
type RatesRefreshJob struct {
	svc    ratesdomain.Service
	limits *config.LimitsHolder
}

func NewRatesRefreshJob(svc ratesdomain.Service, limits *config.LimitsHolder) *RatesRefreshJob {
	return &RatesRefreshJob{svc: svc, limits: limits}
}

func (j *RatesRefreshJob) Name() string { return "rates_refresh" }

func (j *RatesRefreshJob) Interval() time.Duration {
	return j.limits.Current().RatesPollInterval
}

// RunAtStart seeds the cache so the rates endpoint has data right away.
func (j *RatesRefreshJob) RunAtStart() bool { return true }

func (j *RatesRefreshJob) Run(ctx context.Context) error {
	return j.svc.RefreshOnce(ctx)
}

// KeepaliveJob pings the database so pooled connections stay warm.
type KeepaliveJob struct {
	db     *gorm.DB
	limits *config.LimitsHolder
}

func NewKeepaliveJob(db *gorm.DB, limits *config.LimitsHolder) *KeepaliveJob {
	return &KeepaliveJob{db: db, limits: limits}
}

func (j *KeepaliveJob) Name() string { return "db_keepalive" }

func (j *KeepaliveJob) Interval() time.Duration {
	return j.limits.Current().KeepaliveInterval
}

func (j *KeepaliveJob) RunAtStart() bool { return false }

func (j *KeepaliveJob) Run(ctx context.Context) error {
	return j.db.WithContext(ctx).Exec("SELECT 1").Error
}
