package migration

import (
	authdomain "github.com/halaltools/amanah/internal/auth/domain"
	"github.com/halaltools/amanah/internal/config"
	contractdomain "github.com/halaltools/amanah/internal/contract/domain"
	quotadomain "github.com/halaltools/amanah/internal/quota/domain"
	ratesdomain "github.com/halaltools/amanah/internal/rates/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// AutoMigrateAll builds the schema through gorm. The sqlite dialect used for
// local dev and tests is not covered by the embedded postgres migrations.
func AutoMigrateAll(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&authdomain.User{},
		&authdomain.PasswordReset{},
		&quotadomain.UsageAccount{},
		&contractdomain.GenerationRecord{},
		&ratesdomain.RateSnapshot{},
	)
}

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			return AutoMigrateAll(conn)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
