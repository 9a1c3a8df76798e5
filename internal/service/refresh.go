package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/guregu/null.v3"

	"exusiai.dev/sprintsummary/internal/app/appconfig"
	"exusiai.dev/sprintsummary/internal/core/summary"
	"exusiai.dev/sprintsummary/internal/infra"
	"exusiai.dev/sprintsummary/internal/model"
	"exusiai.dev/sprintsummary/internal/model/types"
	"exusiai.dev/sprintsummary/internal/pkg/inflight"
	"exusiai.dev/sprintsummary/internal/pkg/observability"
)

const (
	holderProcess = "process"
	holderCluster = "cluster"
)

type summaryStore interface {
	Replace(ctx context.Context, scope string, summaries []*model.SprintSummary) error
}

type settingStore interface {
	Get(ctx context.Context, scope string) (*model.UserSettings, error)
	Save(ctx context.Context, scope string, settings *model.UserSettings) error
}

// Refresh gathers sprint data from the work tracker, aggregates it and
// replaces the stored summaries of a scope. At most one run per scope is in
// flight; concurrent triggers are dropped.
type Refresh struct {
	conf *appconfig.Config

	Gatherer  *Gatherer
	Summaries summaryStore
	Settings  settingStore
	RedSync   *redsync.Redsync
	JetStream nats.JetStreamContext

	guard  inflight.Guard
	status sync.Map
}

func NewRefresh(conf *appconfig.Config, gatherer *Gatherer, sprintSummaryService *SprintSummary, settingService *Setting, rs *redsync.Redsync, js nats.JetStreamContext) *Refresh {
	return &Refresh{
		conf:      conf,
		Gatherer:  gatherer,
		Summaries: sprintSummaryService,
		Settings:  settingService,
		RedSync:   rs,
		JetStream: js,
	}
}

// Enqueue publishes a refresh of scope to the refresh queue. Non-empty
// projects are saved as the selected projects of scope before publishing.
func (s *Refresh) Enqueue(ctx context.Context, scope string, projects []string) (string, error) {
	if len(projects) > 0 {
		settings, err := s.Settings.Get(ctx, scope)
		if err != nil {
			return "", err
		}
		settings.SelectedProjects = projects
		if err = s.Settings.Save(ctx, scope, settings); err != nil {
			return "", err
		}
	}

	task := &types.RefreshTask{
		TaskID:    strings.ToLower(ulid.Make().String()),
		Scope:     scope,
		Projects:  projects,
		CreatedAt: time.Now().UnixMicro(),
	}
	taskJson, err := json.Marshal(task)
	if err != nil {
		return "", err
	}

	pub, err := s.JetStream.PublishAsync(infra.RefreshSubject, taskJson, nats.MsgId(task.TaskID))
	if err != nil {
		return "", err
	}

	select {
	case err := <-pub.Err():
		return "", err
	case <-pub.Ok():
		return task.TaskID, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Run refreshes task.Scope. ran is false when another run of the same scope,
// in this process or in another replica, is still in flight.
func (s *Refresh) Run(ctx context.Context, task *types.RefreshTask) (ran bool, err error) {
	release, ok := s.guard.TryAcquire(task.Scope)
	if !ok {
		s.skipped(task, holderProcess)
		return false, nil
	}
	defer release()

	if s.RedSync != nil {
		mutex := s.RedSync.NewMutex("mutex:refresh:"+task.Scope,
			redsync.WithTries(1),
			redsync.WithExpiry(s.conf.RefreshTimeout),
		)
		if err := mutex.LockContext(ctx); err != nil {
			var taken *redsync.ErrTaken
			if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) {
				s.skipped(task, holderCluster)
				return false, nil
			}
			return false, errors.Wrap(err, "failed to acquire refresh lock")
		}
		defer func() {
			if _, err := mutex.UnlockContext(context.Background()); err != nil {
				log.Warn().Err(err).Str("scope", task.Scope).Msg("failed to release refresh lock")
			}
		}()
	}

	if s.conf.RefreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.conf.RefreshTimeout)
		defer cancel()
	}

	started := time.Now()
	status := types.RefreshStatus{
		Scope:     task.Scope,
		Running:   true,
		TaskID:    task.TaskID,
		Projects:  task.Projects,
		StartedAt: started,
	}
	if last, ok := s.Status(task.Scope); ok {
		status.Sprints = last.Sprints
		status.Teams = last.Teams
		status.AggregatedAt = last.AggregatedAt
	}
	s.status.Store(task.Scope, status)

	result, err := s.refresh(ctx, task, &status)

	status.Running = false
	status.FinishedAt = null.TimeFrom(time.Now())
	outcome := "success"
	if err != nil {
		outcome = "error"
		status.Error = err.Error()
	}
	// an aggregation that failed to persist is still the last one computed
	if result != nil {
		status.Sprints = len(result.Summaries)
		status.Teams = result.Teams()
		status.AggregatedAt = null.TimeFrom(result.AggregatedAt)
	}
	s.status.Store(task.Scope, status)
	observability.RefreshDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())

	l := log.Info()
	if err != nil {
		l = log.Error().Err(err)
	}
	l.Str("evt.name", "refresh.finished").
		Str("scope", task.Scope).
		Str("taskId", task.TaskID).
		Strs("projects", status.Projects).
		Int("sprints", status.Sprints).
		Dur("took", time.Since(started)).
		Msg("refresh finished")

	return true, err
}

func (s *Refresh) refresh(ctx context.Context, task *types.RefreshTask, status *types.RefreshStatus) (*summary.Result, error) {
	projects := task.Projects
	if len(projects) == 0 {
		settings, err := s.Settings.Get(ctx, task.Scope)
		if err != nil {
			return nil, err
		}
		projects = settings.SelectedProjects
	}
	status.Projects = projects

	records, err := s.Gatherer.Gather(ctx, projects)
	if err != nil {
		return nil, err
	}

	result := summary.Aggregate(records)
	if err := s.Summaries.Replace(ctx, task.Scope, result.Summaries); err != nil {
		return result, err
	}
	return result, nil
}

// Status returns the last refresh status of scope seen by this process.
func (s *Refresh) Status(scope string) (types.RefreshStatus, bool) {
	v, ok := s.status.Load(scope)
	if !ok {
		return types.RefreshStatus{}, false
	}
	return v.(types.RefreshStatus), true
}

func (s *Refresh) skipped(task *types.RefreshTask, holder string) {
	observability.RefreshSkipped.WithLabelValues(holder).Inc()
	log.Info().
		Str("evt.name", "refresh.skipped").
		Str("scope", task.Scope).
		Str("taskId", task.TaskID).
		Str("holder", holder).
		Msg("refresh already in flight, skipping")
}
