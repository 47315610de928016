package seed

import (
	"github.com/halaltools/amanah/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module seeds demo data outside production.
var Module = fx.Module("seed",
	fx.Invoke(run),
)

func run(cfg config.Config, db *gorm.DB, log *zap.Logger) error {
	if cfg.IsProduction() {
		return nil
	}
	if err := EnsureDemoUser(db); err != nil {
		return err
	}
	log.Info("demo account ready")
	return nil
}
