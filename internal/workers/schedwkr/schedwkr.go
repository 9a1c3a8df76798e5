package schedwkr

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"exusiai.dev/sprintsummary/internal/app/appconfig"
	"exusiai.dev/sprintsummary/internal/service"
)

type WorkerDeps struct {
	fx.In

	SettingService *service.Setting
	RefreshService *service.Refresh
}

type Worker struct {
	// count counts batches worker has completed so far
	count int

	schedule appconfig.Schedule

	WorkerDeps
}

// Start enqueues a refresh for every scope with saved settings on each tick of
// the configured schedule.
func Start(lc fx.Lifecycle, conf *appconfig.Config, deps WorkerDeps) {
	if !conf.RefreshSchedule.Enabled() || !conf.AppContext.RunsWorkers() {
		return
	}

	w := &Worker{
		schedule:   conf.RefreshSchedule,
		WorkerDeps: deps,
	}

	var cancel context.CancelFunc
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			cancel = w.do()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func (w *Worker) do() context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for {
			next := w.schedule.Next(time.Now())
			log.Info().
				Str("evt.name", "schedwkr.waiting").
				Time("next", next).
				Msg("scheduled refresh waiting")

			select {
			case <-time.After(time.Until(next)):
			case <-ctx.Done():
				return
			}

			w.batch(ctx)
			w.count++
		}
	}()
	return cancel
}

func (w *Worker) batch(ctx context.Context) {
	scopes, err := w.SettingService.Scopes(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduled refresh failed to list scopes")
		return
	}

	log.Info().
		Str("evt.name", "schedwkr.batch").
		Int("count", w.count).
		Int("scopes", len(scopes)).
		Msg("scheduled refresh batch started")

	for _, scope := range scopes {
		taskID, err := w.RefreshService.Enqueue(ctx, scope, nil)
		if err != nil {
			log.Error().Err(err).Str("scope", scope).Msg("scheduled refresh failed to enqueue")
			continue
		}
		log.Debug().Str("scope", scope).Str("taskId", taskID).Msg("scheduled refresh enqueued")
	}
}
