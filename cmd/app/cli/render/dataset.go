package render

import (
	"github.com/samber/lo"
	"gopkg.in/guregu/null.v3"

	"exusiai.dev/sprintsummary/internal/core/pivot"
	"exusiai.dev/sprintsummary/internal/core/summary"
	"exusiai.dev/sprintsummary/internal/model"
	"exusiai.dev/sprintsummary/internal/service"
)

// Dataset is an offline snapshot of gathered sprint records plus the options
// to render them with.
type Dataset struct {
	// Projects maps project names to the records gathered for them.
	Projects      map[string][]*model.SprintRecord `yaml:"projects"`
	CombinedTeams []*model.CombinedTeam            `yaml:"combinedTeams"`

	// Teams defaults to every team in the records followed by every alias.
	Teams []string `yaml:"teams"`
	// Metrics defaults to every metric.
	Metrics        []string `yaml:"metrics"`
	StartingSprint *int     `yaml:"startingSprint"`
	EndingSprint   *int     `yaml:"endingSprint"`
}

func (d *Dataset) Render(format string) (string, error) {
	records := lo.Values(d.Projects)
	result := summary.Aggregate(records)

	teams := d.Teams
	if len(teams) == 0 {
		aliases := lo.Map(d.CombinedTeams, func(c *model.CombinedTeam, _ int) string {
			return c.AliasName
		})
		teams = lo.Uniq(append(result.Teams(), aliases...))
	}

	metrics := pivot.AllMetrics()
	if len(d.Metrics) > 0 {
		var err error
		if metrics, err = pivot.ParseMetrics(d.Metrics); err != nil {
			return "", err
		}
	}

	bounds := &model.UserSettings{}
	if d.StartingSprint != nil {
		bounds.StartingSprint = null.IntFrom(int64(*d.StartingSprint))
	}
	if d.EndingSprint != nil {
		bounds.EndingSprint = null.IntFrom(int64(*d.EndingSprint))
	}
	start, end := bounds.SprintRange()

	text, err := service.Compose(result.Summaries, d.CombinedTeams, teams, metrics, start, end)
	if err != nil {
		return "", err
	}
	return service.Format(text, format)
}
