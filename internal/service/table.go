package service

import (
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/zeebo/xxh3"

	"exusiai.dev/sprintsummary/internal/app/appconfig"
	"exusiai.dev/sprintsummary/internal/core/combine"
	"exusiai.dev/sprintsummary/internal/core/pivot"
	"exusiai.dev/sprintsummary/internal/model"
	"exusiai.dev/sprintsummary/internal/model/cache"
	"exusiai.dev/sprintsummary/internal/pkg/observability"
)

const (
	FormatText   = "text"
	FormatPretty = "pretty"
	FormatHTML   = "html"
)

type Table struct {
	conf *appconfig.Config

	SettingService       *Setting
	SprintSummaryService *SprintSummary
	CombinedTeamService  *CombinedTeam
	TeamService          *Team
}

func NewTable(conf *appconfig.Config, settingService *Setting, sprintSummaryService *SprintSummary, combinedTeamService *CombinedTeam, teamService *Team) *Table {
	return &Table{
		conf:                 conf,
		SettingService:       settingService,
		SprintSummaryService: sprintSummaryService,
		CombinedTeamService:  combinedTeamService,
		TeamService:          teamService,
	}
}

// Cache: table#key:{scope}|{fingerprint}, TableCacheTTL
func (s *Table) Render(ctx context.Context, scope, format string) (string, error) {
	if format == "" {
		format = FormatText
	}

	settings, err := s.SettingService.Get(ctx, scope)
	if err != nil {
		return "", err
	}

	key := scope + "|" + fingerprint(format, settings)
	var table string
	_, err = cache.TableByKey.MutexGetSet(ctx, key, &table, func() (string, error) {
		return s.render(ctx, scope, format, settings)
	}, s.conf.TableCacheTTL)
	return table, err
}

func (s *Table) render(ctx context.Context, scope, format string, settings *model.UserSettings) (string, error) {
	start := time.Now()
	defer func() {
		observability.RenderDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())
	}()

	summaries, err := s.SprintSummaryService.List(ctx, scope)
	if err != nil {
		return "", err
	}
	rules, err := s.CombinedTeamService.List(ctx)
	if err != nil {
		return "", err
	}

	teams := settings.SelectedTeams
	if len(teams) == 0 {
		teams = availableTeams(summaries, rules)
	}

	metrics := pivot.AllMetrics()
	if len(settings.SelectedColumns) > 0 {
		metrics, err = pivot.ParseMetrics(settings.SelectedColumns)
		if err != nil {
			return "", err
		}
	}

	startSprint, endSprint := settings.SprintRange()
	text, err := Compose(summaries, rules, teams, metrics, startSprint, endSprint)
	if err != nil {
		return "", err
	}

	return Format(text, format)
}

// Compose filters summaries to the inclusive sprint range, merges combined
// teams into a deep copy of them and renders the pivot table. summaries is
// left untouched.
func Compose(summaries []*model.SprintSummary, rules []*model.CombinedTeam, teams []string, metrics []pivot.Metric, startSprint, endSprint int) (string, error) {
	filtered := lo.Filter(summaries, func(s *model.SprintSummary, _ int) bool {
		return s.SprintNumber >= startSprint && s.SprintNumber <= endSprint
	})

	var copied []*model.SprintSummary
	if err := copier.CopyWithOption(&copied, &filtered, copier.Option{DeepCopy: true}); err != nil {
		return "", errors.Wrap(err, "failed to copy summaries")
	}

	combine.Merge(copied, rules)
	return pivot.Render(copied, teams, metrics), nil
}

// Format converts a rendered pivot table to format.
func Format(text, format string) (string, error) {
	switch format {
	case "", FormatText:
		return text, nil
	case FormatPretty, FormatHTML:
		grid, err := pivot.Parse(text)
		if err != nil {
			return "", err
		}
		if format == FormatPretty {
			return grid.Pretty(), nil
		}
		return grid.HTML(), nil
	default:
		return "", errors.Errorf("unknown table format %q", format)
	}
}

func fingerprint(format string, settings *model.UserSettings) string {
	b, err := json.Marshal(settings)
	if err != nil {
		// settings are plain data; fall back to the format alone
		b = nil
	}
	return strconv.FormatUint(xxh3.HashString(format+"\x00"+string(b)), 16)
}
