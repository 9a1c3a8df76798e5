// Package summary folds raw per-project sprint records into one summary per
// sprint number.
package summary

import (
	"sort"
	"time"

	"github.com/ahmetb/go-linq/v3"
	"github.com/samber/lo"

	"exusiai.dev/sprintsummary/internal/model"
)

// Result is the outcome of one aggregation pass. Callers that want to keep
// the last result around hold on to it themselves.
type Result struct {
	Summaries    []*model.SprintSummary
	AggregatedAt time.Time
}

// Teams lists every team name seen in the result, ordered by first appearance.
func (r *Result) Teams() []string {
	var teams []string
	for _, s := range r.Summaries {
		for _, c := range s.Teams {
			teams = append(teams, c.Team)
		}
	}
	return lo.Uniq(teams)
}

// Aggregate groups records of all projects by sprint number and sums the
// counters of each team. Summaries come out ordered by sprint number and the
// teams inside each summary are ordered by name.
func Aggregate(projects [][]*model.SprintRecord) *Result {
	var groups []linq.Group
	linq.From(lo.Flatten(projects)).
		WhereT(func(r *model.SprintRecord) bool {
			return r != nil
		}).
		GroupByT(
			func(r *model.SprintRecord) int { return r.SprintNumber },
			func(r *model.SprintRecord) *model.SprintRecord { return r },
		).
		OrderByT(func(g linq.Group) int {
			return g.Key.(int)
		}).
		ToSlice(&groups)

	summaries := make([]*model.SprintSummary, 0, len(groups))
	for _, g := range groups {
		records := make([]*model.SprintRecord, 0, len(g.Group))
		for _, el := range g.Group {
			records = append(records, el.(*model.SprintRecord))
		}
		summaries = append(summaries, summarize(g.Key.(int), records))
	}

	return &Result{
		Summaries:    summaries,
		AggregatedAt: time.Now(),
	}
}

func summarize(sprintNumber int, records []*model.SprintRecord) *model.SprintSummary {
	counters := make(map[string]*model.TeamCounters)
	get := func(team string) *model.TeamCounters {
		c, ok := counters[team]
		if !ok {
			c = &model.TeamCounters{Team: team}
			counters[team] = c
		}
		return c
	}

	for _, r := range records {
		for team, n := range r.CommittedByTeam {
			get(team).Committed += n
		}
		for team, n := range r.CompletedByTeam {
			get(team).Completed += n
		}
		for team, n := range r.AllCompletedByTeam {
			get(team).AllCompleted += n
		}
	}

	teams := lo.Values(counters)
	sort.Slice(teams, func(i, j int) bool {
		return teams[i].Team < teams[j].Team
	})
	for _, c := range teams {
		c.PercentCompleted = model.PercentOf(c.Completed, c.Committed)
	}

	return &model.SprintSummary{
		SprintNumber: sprintNumber,
		Teams:        teams,
	}
}
