package telegram

import (
	"context"

	"go.uber.org/fx"

	"fidelity_bot/internal/modules/config"
	"fidelity_bot/internal/notify"
	"fidelity_bot/pkg/logger"
)

// Module provides the notify.Notifier: Telegram when a token is
// configured, stdout otherwise. The Telegram long-poll loop is tied to
// the fx lifecycle.
func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			func(cfg *config.Config) (notify.Notifier, error) {
				if cfg.Telegram.Token == "" {
					logger.Info("telegram token is not set, reporting to stdout")
					return notify.Stdout{}, nil
				}
				return notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
			},
		),
		fx.Invoke(
			func(lc fx.Lifecycle, n notify.Notifier) {
				t, ok := n.(*notify.Telegram)
				if !ok {
					return
				}
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						t.Start(ctx)
						return nil
					},
					OnStop: func(ctx context.Context) error {
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}
