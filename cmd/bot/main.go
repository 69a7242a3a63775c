package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	"fidelity_bot/internal/modules/config"
	"fidelity_bot/internal/modules/health"
	telegram "fidelity_bot/internal/modules/telegram_bot"
	"fidelity_bot/internal/runner"
	"fidelity_bot/pkg/logger"
	"fidelity_bot/pkg/tracing"
)

const serviceName = "fidelity_bot"

func main() {
	flush, err := logger.Init()
	if err != nil {
		log.Fatal(err)
	}
	defer flush()
	logger.SetServiceName(serviceName)
	tracing.SetServiceName(serviceName)

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		health.Module(),
		telegram.Module(),
		runner.Module(),
		fx.Invoke(initTracing),
	)
	app.Run()
}

// initTracing is optional: no Jaeger host means the no-op global tracer
// stays in place.
func initTracing(lc fx.Lifecycle, cfg *config.Config) {
	if cfg.Jaeger.Host == "" {
		return
	}
	_, closer, err := tracing.InitTracer(tracing.Config{
		Host: cfg.Jaeger.Host,
		Port: cfg.Jaeger.Port,
	})
	if err != nil {
		logger.Error("tracing init: %v", err)
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			closer()
			return nil
		},
	})
}
