package verdict

import (
	"github.com/halaltools/amanah/internal/verdict/client"
	"github.com/halaltools/amanah/internal/verdict/service"
	"go.uber.org/fx"
)

var Module = fx.Module("verdict.service",
	fx.Provide(client.New),
	fx.Provide(service.New),
)
