package rates

import (
	"github.com/halaltools/amanah/internal/rates/client"
	"github.com/halaltools/amanah/internal/rates/repository"
	"github.com/halaltools/amanah/internal/rates/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rates.service",
	fx.Provide(client.New),
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
