package auth

import (
	"github.com/halaltools/amanah/internal/auth/repository"
	"github.com/halaltools/amanah/internal/auth/service"
	"github.com/halaltools/amanah/internal/auth/token"
	"github.com/halaltools/amanah/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(newIssuer),
	fx.Provide(repository.New),
	fx.Provide(service.New),
)

func newIssuer(cfg config.Config) *token.Issuer {
	return token.NewIssuer(cfg.AuthJWTSecret, cfg.AuthJWTTTL)
}
