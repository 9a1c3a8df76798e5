package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"exusiai.dev/sprintsummary/internal/core/pivot"
	"exusiai.dev/sprintsummary/internal/model"
)

func storedSummaries() []*model.SprintSummary {
	return []*model.SprintSummary{
		{SprintNumber: 1, Teams: []*model.TeamCounters{
			{Team: "A", Committed: 2, Completed: 1, AllCompleted: 1, PercentCompleted: 50},
			{Team: "B", Committed: 2, Completed: 2, AllCompleted: 2, PercentCompleted: 100},
		}},
		{SprintNumber: 2, Teams: []*model.TeamCounters{
			{Team: "A", Committed: 4, Completed: 4, AllCompleted: 4, PercentCompleted: 100},
			{Team: "B", Committed: 6, Completed: 3, AllCompleted: 3, PercentCompleted: 50},
		}},
		{SprintNumber: 3, Teams: []*model.TeamCounters{
			{Team: "A", Committed: 1, Completed: 0, AllCompleted: 0},
		}},
	}
}

func TestComposeMergesCopyInRange(t *testing.T) {
	summaries := storedSummaries()
	rules := []*model.CombinedTeam{
		{AliasName: "AB", MemberTeams: []string{"A", "B"}, EffectiveFromSprint: 2},
	}

	out, err := Compose(summaries, rules, []string{"A", "AB", "B"}, []pivot.Metric{pivot.Committed}, 1, 2)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Sprint|A|AB|B|Sprint Totals|", lines[0])
	assert.Equal(t, "Sprint 1|2|0|2|4|", lines[2])
	assert.Equal(t, "Sprint 2|0|10|0|10|", lines[3])
	assert.Equal(t, "Totals|2|10|2|14|", lines[4])

	// stored summaries are not merged in place
	assert.Len(t, summaries[1].Teams, 2)
	assert.Equal(t, 4, summaries[1].Team("A").Committed)
}

func TestComposeEmptyRange(t *testing.T) {
	out, err := Compose(storedSummaries(), nil, []string{"A"}, []pivot.Metric{pivot.Committed}, 10, 20)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Totals|0|0|", lines[2])
}

func TestFormat(t *testing.T) {
	text, err := Compose(storedSummaries(), nil, []string{"A", "B"}, pivot.AllMetrics(), 1, 3)
	require.NoError(t, err)

	same, err := Format(text, FormatText)
	require.NoError(t, err)
	assert.Equal(t, text, same)

	pretty, err := Format(text, FormatPretty)
	require.NoError(t, err)
	assert.Contains(t, pretty, "Sprint Totals")

	html, err := Format(text, FormatHTML)
	require.NoError(t, err)
	assert.Contains(t, html, "<table")

	_, err = Format(text, "xml")
	assert.Error(t, err)
}

func TestFingerprintChangesWithOptions(t *testing.T) {
	a := &model.UserSettings{SelectedTeams: []string{"A"}}
	b := &model.UserSettings{SelectedTeams: []string{"A"}, EndingSprint: null.IntFrom(3)}

	assert.Equal(t, fingerprint(FormatText, a), fingerprint(FormatText, a))
	assert.NotEqual(t, fingerprint(FormatText, a), fingerprint(FormatText, b))
	assert.NotEqual(t, fingerprint(FormatText, a), fingerprint(FormatHTML, a))
}

func TestAvailableTeams(t *testing.T) {
	combined := []*model.CombinedTeam{{AliasName: "AB"}, {AliasName: "A"}}
	assert.Equal(t, []string{"A", "B", "AB"}, availableTeams(storedSummaries(), combined))
	assert.Equal(t, []string{}, availableTeams(nil, nil))
}
