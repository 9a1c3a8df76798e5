package infra

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module("infra", fx.Provide(
		Tracing,
		Database,
		Redis,
		RedSync,
		NATS,
		Tracker,
	))
}
