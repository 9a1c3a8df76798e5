package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"exusiai.dev/sprintsummary/internal/app/appconfig"
	"exusiai.dev/sprintsummary/internal/model"
	"exusiai.dev/sprintsummary/internal/pkg/observability"
	"exusiai.dev/sprintsummary/internal/pkg/worktracker"
)

const (
	wiqlTimeLayout   = "2006-01-02T15:04:05.000Z"
	defaultBlockSize = 200
)

// Gatherer reads the iterations of every selected project from the work
// tracker and counts committed, completed and all completed work items per
// team and sprint.
type Gatherer struct {
	tracker worktracker.Tracker

	teamSuffix        string
	blockSize         int
	concurrency       int
	workItemTypes     []string
	completedStates   []string
	allCompletedState []string
}

func NewGatherer(conf *appconfig.Config, tracker worktracker.Tracker) *Gatherer {
	return &Gatherer{
		tracker:           tracker,
		teamSuffix:        conf.TrackerTeamSuffix,
		blockSize:         lo.Ternary(conf.TrackerBlockSize > 0, conf.TrackerBlockSize, defaultBlockSize),
		concurrency:       lo.Ternary(conf.GatherConcurrency > 0, conf.GatherConcurrency, 1),
		workItemTypes:     conf.TrackerWorkItemTypes,
		completedStates:   conf.TrackerCompletedStates,
		allCompletedState: conf.TrackerAllCompletedStates,
	}
}

// Gather returns one list of sprint records per project, in the order of
// projects. Tracker failures are logged and yield empty results; only the
// cancellation of ctx is reported as an error.
func (s *Gatherer) Gather(ctx context.Context, projects []string) ([][]*model.SprintRecord, error) {
	results := make([][]*model.SprintRecord, len(projects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, project := range projects {
		i, project := i, project
		g.Go(func() error {
			results[i] = s.gatherProject(gctx, project)
			return nil
		})
	}
	_ = g.Wait()

	return results, ctx.Err()
}

func (s *Gatherer) gatherProject(ctx context.Context, project string) []*model.SprintRecord {
	team := project + s.teamSuffix

	iterations, err := s.tracker.ListIterations(ctx, project, team)
	if err != nil {
		s.failed(err, "iterations", project)
		return nil
	}

	records := make([]*model.SprintRecord, 0, len(iterations))
	for _, it := range iterations {
		if ctx.Err() != nil {
			break
		}

		number, ok := sprintNumber(it.Name)
		if !ok {
			log.Warn().
				Str("evt.name", "gather.iteration.skipped").
				Str("project", project).
				Str("iteration", it.Name).
				Msg("iteration name carries no sprint number")
			continue
		}
		if !it.Scheduled() {
			log.Warn().
				Str("evt.name", "gather.iteration.skipped").
				Str("project", project).
				Str("iteration", it.Name).
				Msg("iteration has no start or finish date")
			continue
		}

		records = append(records, s.gatherSprint(ctx, it, number))
	}

	observability.GatheredSprints.WithLabelValues(project).Set(float64(len(records)))
	log.Info().
		Str("evt.name", "gather.project.done").
		Str("project", project).
		Int("sprints", len(records)).
		Msg("gathered project sprints")

	return records
}

func (s *Gatherer) gatherSprint(ctx context.Context, it *worktracker.Iteration, number int) *model.SprintRecord {
	// the first day of a sprint is spent planning, so commitments are read at
	// the end of the day after the start
	start := sprintInstant(it.StartDate, 1)
	finish := sprintInstant(it.FinishDate, 0)

	record := &model.SprintRecord{
		SprintNumber: number,
		Path:         it.Path,
		StartTime:    start,
		EndTime:      finish,
	}

	committed := s.fetch(ctx, s.queryIDs(ctx, s.committedQuery(it.Path, start)), nil, nil)
	record.CommittedByTeam = countByTeam(committed)

	committedIDs := lo.Map(committed, func(w *worktracker.WorkItem, _ int) int { return w.ID })
	completed := s.fetch(ctx, committedIDs, &finish, func(w *worktracker.WorkItem) bool {
		return lo.Contains(s.completedStates, w.State())
	})
	record.CompletedByTeam = countByTeam(completed)

	allCompleted := s.fetch(ctx, s.queryIDs(ctx, s.allCompletedQuery(it.Path, finish)), &finish, nil)
	record.AllCompletedByTeam = countByTeam(allCompleted)

	return record
}

func (s *Gatherer) queryIDs(ctx context.Context, query string) []int {
	ids, err := s.tracker.QueryWorkItemIDs(ctx, query)
	if err != nil {
		s.failed(err, "wiql", query)
		return nil
	}
	return ids
}

// fetch reads ids in blocks, keeping the items accepted by keep (all when
// keep is nil). A failed block contributes nothing.
func (s *Gatherer) fetch(ctx context.Context, ids []int, asOf *time.Time, keep func(*worktracker.WorkItem) bool) []*worktracker.WorkItem {
	var items []*worktracker.WorkItem
	for _, block := range lo.Chunk(ids, s.blockSize) {
		fetched, err := s.tracker.GetWorkItems(ctx, block, worktracker.BriefFields, asOf)
		if err != nil {
			s.failed(err, "workitems", strconv.Itoa(len(block))+" ids")
			continue
		}
		if keep != nil {
			fetched = lo.Filter(fetched, func(w *worktracker.WorkItem, _ int) bool { return keep(w) })
		}
		items = append(items, fetched...)
	}
	return items
}

func (s *Gatherer) failed(err error, op, subject string) {
	observability.TrackerRequestFailures.WithLabelValues(op).Inc()
	log.Error().
		Str("evt.name", "gather.tracker.failed").
		Err(err).
		Str("op", op).
		Str("subject", subject).
		Msg("work tracker request failed, treating result as empty")
}

func (s *Gatherer) committedQuery(path string, asOf time.Time) string {
	return wiql(asOf,
		anyOf("[Work Item Type]", s.workItemTypes),
		"[Iteration Path] UNDER "+quote(path),
	)
}

func (s *Gatherer) allCompletedQuery(path string, asOf time.Time) string {
	return wiql(asOf,
		anyOf("[Work Item Type]", s.workItemTypes),
		anyOf("[State]", s.allCompletedState),
		"[Iteration Path] UNDER "+quote(path),
	)
}

func wiql(asOf time.Time, conditions ...string) string {
	return "Select [Id] From WorkItems Where " +
		strings.Join(lo.Without(conditions, ""), " AND ") +
		" ASOF " + quote(asOf.UTC().Format(wiqlTimeLayout))
}

func anyOf(field string, values []string) string {
	if len(values) == 0 {
		return ""
	}
	clauses := lo.Map(values, func(v string, _ int) string {
		return field + " = " + quote(v)
	})
	return "(" + strings.Join(clauses, " OR ") + ")"
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func countByTeam(items []*worktracker.WorkItem) map[string]int {
	groups := lo.GroupBy(items, func(w *worktracker.WorkItem) string { return w.Team() })
	return lo.MapValues(groups, func(g []*worktracker.WorkItem, _ string) int { return len(g) })
}

// sprintNumber reads the number following the first space of an iteration
// name such as "Sprint 12".
func sprintNumber(name string) (int, bool) {
	parts := strings.Split(name, " ")
	if len(parts) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// sprintInstant is 23:59 UTC on the calendar day of d plus addDays.
func sprintInstant(d time.Time, addDays int) time.Time {
	y, m, day := d.UTC().Date()
	return time.Date(y, m, day+addDays, 23, 59, 0, 0, time.UTC)
}
