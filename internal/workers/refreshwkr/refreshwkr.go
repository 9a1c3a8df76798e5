package refreshwkr

import (
	"context"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"exusiai.dev/sprintsummary/internal/app/appconfig"
	"exusiai.dev/sprintsummary/internal/infra"
	"exusiai.dev/sprintsummary/internal/model/types"
	"exusiai.dev/sprintsummary/internal/pkg/observability"
	"exusiai.dev/sprintsummary/internal/service"
)

const (
	consumerCount = 2
	queueGroup    = "sprintsummary-refreshers"

	ackWait          = time.Second * 30
	inProgressPeriod = time.Second * 10
)

type WorkerDeps struct {
	fx.In

	JetStream      nats.JetStreamContext
	RefreshService *service.Refresh
}

type Worker struct {
	// count is the number of consumers
	count int

	timeout time.Duration

	WorkerDeps
}

func Start(lc fx.Lifecycle, conf *appconfig.Config, deps WorkerDeps) {
	if !conf.WorkerEnabled || !conf.AppContext.RunsWorkers() {
		log.Info().
			Str("evt.name", "refreshwkr.disabled").
			Str("env", conf.AppContext.Env.String()).
			Msg("refresh worker is disabled for this process")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan error)
	// handle & dump errors from consumers
	go func() {
		for {
			select {
			case err := <-ch:
				if err != nil {
					log.Error().Err(err).Msg("refresh worker error")
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	w := &Worker{
		timeout:    conf.RefreshTimeout,
		WorkerDeps: deps,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			for i := 0; i < consumerCount; i++ {
				go func() {
					if err := w.Consumer(ctx, ch); err != nil && ctx.Err() == nil {
						ch <- err
					}
				}()
				w.count += 1
			}
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func (w *Worker) Consumer(ctx context.Context, ch chan error) error {
	msgChan := make(chan *nats.Msg, 16)

	sub, err := w.JetStream.ChanQueueSubscribe(infra.RefreshSubjectGroup, queueGroup, msgChan,
		nats.AckWait(ackWait),
		nats.MaxAckPending(consumerCount*4),
		nats.BindStream(infra.RefreshStream),
	)
	if err != nil {
		log.Err(err).Msg("failed to subscribe to " + infra.RefreshSubjectGroup)
		return err
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			log.Warn().Err(err).Msg("failed to unsubscribe refresh consumer")
		}
	}()

	for {
		select {
		case msg := <-msgChan:
			w.handle(ctx, msg, ch)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg *nats.Msg, ch chan error) {
	taskCtx, cancelTask := context.WithTimeout(ctx, w.timeout)
	stopInforming := informInProgress(msg)
	defer func() {
		stopInforming()
		cancelTask()
		// a failed refresh is reported through its status and is not redelivered
		if err := msg.Ack(); err != nil {
			log.Error().Err(err).Msg("failed to ack")
		}
	}()

	task := &types.RefreshTask{}
	if err := json.Unmarshal(msg.Data, task); err != nil {
		ch <- err
		return
	}

	if task.CreatedAt != 0 {
		observability.RefreshConsumeMessagingLatency.
			WithLabelValues().
			Observe(time.Since(time.UnixMicro(task.CreatedAt)).Seconds())
	}

	ran, err := w.RefreshService.Run(taskCtx, task)
	if err != nil {
		log.Error().
			Err(err).
			Str("taskId", task.TaskID).
			Str("refreshTask", spew.Sdump(task)).
			Msg("failed to consume refresh task")
		ch <- err
		return
	}

	log.Info().
		Str("taskId", task.TaskID).
		Bool("ran", ran).
		Msg("refresh task processed successfully")
}

// informInProgress keeps msg from being redelivered while a long refresh is
// running, until the returned func is called.
func informInProgress(msg *nats.Msg) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(inProgressPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := msg.InProgress(); err != nil {
					log.Error().Err(err).Msg("failed to set msg InProgress")
				}
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}
