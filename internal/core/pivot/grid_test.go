package pivot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exusiai.dev/sprintsummary/internal/model"
)

func TestParseInfersSpan(t *testing.T) {
	type testCase struct {
		name    string
		teams   []string
		metrics []Metric
		span    int
		groups  []string
	}

	testCases := []testCase{
		{name: "two metrics", teams: []string{"A"}, metrics: []Metric{Committed, PercentCompleted}, span: 2, groups: []string{"A", "Sprint Totals"}},
		{name: "single metric", teams: []string{"B", "A"}, metrics: []Metric{Completed}, span: 1, groups: []string{"A", "B", "Sprint Totals"}},
		{name: "no teams", teams: nil, metrics: AllMetrics(), span: 4, groups: []string{"Sprint Totals"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			grid, err := Parse(Render(twoSprints(), tc.teams, tc.metrics))
			require.NoError(t, err)
			assert.Equal(t, "Sprint", grid.Corner)
			assert.Equal(t, tc.span, grid.Span)
			assert.Equal(t, tc.groups, grid.Groups)
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	summaries := []*model.SprintSummary{
		{SprintNumber: 3, Teams: []*model.TeamCounters{
			{Team: "Alpha Team", Committed: 7, Completed: 3, AllCompleted: 4},
			{Team: "Beta", Committed: 0, Completed: 0, AllCompleted: 2},
		}},
		{SprintNumber: 4, Teams: []*model.TeamCounters{
			{Team: "Beta", Committed: 9, Completed: 9, AllCompleted: 9},
		}},
	}

	for _, metrics := range [][]Metric{nil, {PercentCompleted}, AllMetrics()} {
		text := Render(summaries, []string{"Beta", "Alpha Team"}, metrics)
		grid, err := Parse(text)
		require.NoError(t, err)
		assert.Equal(t, text, grid.String())
	}
}

func TestParseRows(t *testing.T) {
	grid, err := Parse(Render(twoSprints(), []string{"A"}, []Metric{Committed, PercentCompleted}))
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"", "Committed", "PercentCompleted", "Committed", "PercentCompleted"},
		{"Sprint 1", "10", "50.00%", "10", "50.00%"},
		{"Sprint 2", "4", "100.00%", "4", "100.00%"},
		{"Totals", "14", "64.29%", "14", "64.29%"},
	}, grid.Rows)
}

func TestParseMalformed(t *testing.T) {
	for _, text := range []string{
		"",
		"Sprint",
		"Sprint|A",
		"Sprint|A|\nSprint 1|3",
	} {
		_, err := Parse(text)
		assert.ErrorIs(t, err, ErrMalformedGrid, text)
	}
}

func TestGridRendering(t *testing.T) {
	grid, err := Parse(Render(twoSprints(), []string{"A"}, []Metric{Committed, PercentCompleted}))
	require.NoError(t, err)

	pretty := grid.Pretty()
	assert.Contains(t, pretty, "Sprint Totals")
	assert.Contains(t, pretty, "64.29%")
	assert.Equal(t, 1, strings.Count(pretty, "Sprint Totals"), pretty)

	html := grid.HTML()
	assert.True(t, strings.HasPrefix(html, "<table"), html)
	assert.Contains(t, html, "Sprint 2")
	assert.Contains(t, html, "100.00%")
}
