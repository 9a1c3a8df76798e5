package infra

import (
	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/log"

	"exusiai.dev/sprintsummary/internal/app/appconfig"
	"exusiai.dev/sprintsummary/internal/pkg/bininfo"
)

// SentryInit initializes sentry with side-effect
func SentryInit(conf *appconfig.Config) error {
	if conf.SentryDSN == "" {
		log.Warn().
			Str("evt.name", "infra.sentry.disabled").
			Msg("sentry is disabled due to missing DSN")
		return nil
	}

	log.Info().
		Str("evt.name", "infra.sentry.init").
		Msg("initializing sentry")

	return sentry.Init(sentry.ClientOptions{
		Dsn:              conf.SentryDSN,
		Release:          bininfo.Release(),
		Environment:      conf.AppContext.Env.String(),
		Debug:            conf.DevMode,
		AttachStacktrace: true,
		TracesSampleRate: 0.01,
	})
}
