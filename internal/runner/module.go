package runner

import (
	"context"

	"go.uber.org/fx"

	"fidelity_bot/pkg/logger"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			New,
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			r *Runner,
			sd fx.Shutdowner,
			ctx context.Context,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						if err := r.Run(ctx); err != nil {
							logger.Error("runner: %v", err)
						}
						_ = sd.Shutdown()
					}()
					return nil
				},
			})
		}),
	)
}
