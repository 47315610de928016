package quota

import (
	"github.com/halaltools/amanah/internal/quota/repository"
	"github.com/halaltools/amanah/internal/quota/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quota.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
