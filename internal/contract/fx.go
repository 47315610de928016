package contract

import (
	"github.com/halaltools/amanah/internal/contract/render"
	"github.com/halaltools/amanah/internal/contract/repository"
	"github.com/halaltools/amanah/internal/contract/service"
	"go.uber.org/fx"
)

var Module = fx.Module("contract.service",
	fx.Provide(render.New),
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
