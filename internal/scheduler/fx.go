package scheduler

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("scheduler",
	fx.Provide(
		fx.Annotate(NewRatesRefreshJob, fx.As(new(Job)), fx.ResultTags(`group:"scheduler.jobs"`)),
		fx.Annotate(NewKeepaliveJob, fx.As(new(Job)), fx.ResultTags(`group:"scheduler.jobs"`)),
	),
	fx.Provide(New),
	fx.Invoke(StartScheduler),
)

func StartScheduler(lc fx.Lifecycle, sched *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			sched.Start(ctx)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})
			return nil
		},
	})
}
