package pivot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exusiai.dev/sprintsummary/internal/core/combine"
	"exusiai.dev/sprintsummary/internal/model"
)

func twoSprints() []*model.SprintSummary {
	return []*model.SprintSummary{
		{
			SprintNumber: 2,
			Teams: []*model.TeamCounters{
				{Team: "A", Committed: 4, Completed: 4, AllCompleted: 4, PercentCompleted: 100},
			},
		},
		{
			SprintNumber: 1,
			Teams: []*model.TeamCounters{
				{Team: "A", Committed: 10, Completed: 5, AllCompleted: 5, PercentCompleted: 50},
			},
		},
	}
}

func TestRenderScenario(t *testing.T) {
	out := Render(twoSprints(), []string{"A"}, []Metric{Committed, PercentCompleted})

	expected := "Sprint|A||Sprint Totals||\n" +
		"|Committed|PercentCompleted|Committed|PercentCompleted|\n" +
		"Sprint 1|10|50.00%|10|50.00%|\n" +
		"Sprint 2|4|100.00%|4|100.00%|\n" +
		"Totals|14|64.29%|14|64.29%|"
	assert.Equal(t, expected, out)
}

func TestRenderAbsentTeam(t *testing.T) {
	summaries := []*model.SprintSummary{
		{
			SprintNumber: 7,
			Teams: []*model.TeamCounters{
				{Team: "B", Committed: 0, Completed: 0, AllCompleted: 0},
			},
		},
	}

	out := Render(summaries, []string{"B", "A"}, AllMetrics())
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "Sprint|A||||B||||Sprint Totals||||", lines[0])
	assert.Equal(t, "Sprint 7|0|0|0|N/A%|0|0|0|0.00%|0|0|0|0.00%|", lines[2])
	assert.Equal(t, "Totals|0|0|0|0.00%|0|0|0|0.00%|0|0|0|0.00%|", lines[3])
}

func TestRenderTotalsConsistency(t *testing.T) {
	summaries := []*model.SprintSummary{
		{SprintNumber: 1, Teams: []*model.TeamCounters{
			{Team: "A", Committed: 3, Completed: 1, AllCompleted: 2},
			{Team: "B", Committed: 5, Completed: 5, AllCompleted: 5},
			{Team: "Hidden", Committed: 100, Completed: 100, AllCompleted: 100},
		}},
		{SprintNumber: 2, Teams: []*model.TeamCounters{
			{Team: "B", Committed: 1, Completed: 0, AllCompleted: 1},
		}},
	}

	out := Render(summaries, []string{"A", "B"}, []Metric{Committed, Completed, AllCompleted})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)

	assert.Equal(t, "Sprint 1|3|1|2|5|5|5|8|6|7|", lines[2])
	assert.Equal(t, "Sprint 2|0|0|0|1|0|1|1|0|1|", lines[3])
	// column totals add up to the grand total, and so do the row totals
	assert.Equal(t, "Totals|3|1|2|6|5|6|9|6|8|", lines[4])
}

func TestRenderDoesNotMutateTeams(t *testing.T) {
	teams := []string{"C", "A", "B"}
	out := Render(nil, teams, []Metric{Committed})

	assert.Equal(t, []string{"C", "A", "B"}, teams)
	assert.Equal(t, "Sprint|A|B|C|Sprint Totals|\n|Committed|Committed|Committed|Committed|\nTotals|0|0|0|0|", out)
}

func TestRenderDuplicateSprintNumbers(t *testing.T) {
	summaries := []*model.SprintSummary{
		{SprintNumber: 1, Teams: []*model.TeamCounters{{Team: "A", Committed: 1}}},
		{SprintNumber: 1, Teams: []*model.TeamCounters{{Team: "A", Committed: 2}}},
	}

	out := Render(summaries, []string{"A"}, []Metric{Committed})
	assert.Equal(t, "Sprint|A|Sprint Totals|\n|Committed|Committed|\nSprint 1|2|2|\nTotals|2|2|", out)
}

func TestRenderNoMetrics(t *testing.T) {
	out := Render(twoSprints(), []string{"A"}, nil)
	assert.Equal(t, "Sprint|A|Sprint Totals|\n|\nSprint 1|\nSprint 2|\nTotals|", out)
}

func TestRenderAfterMerge(t *testing.T) {
	summaries := []*model.SprintSummary{
		{SprintNumber: 1, Teams: []*model.TeamCounters{
			{Team: "A", Committed: 10, Completed: 5, AllCompleted: 5},
			{Team: "B", Committed: 4, Completed: 4, AllCompleted: 4},
		}},
		{SprintNumber: 2, Teams: []*model.TeamCounters{
			{Team: "A", Committed: 10, Completed: 5, AllCompleted: 5},
			{Team: "B", Committed: 4, Completed: 4, AllCompleted: 4},
		}},
	}
	combine.Merge(summaries, []*model.CombinedTeam{
		{AliasName: "X", MemberTeams: []string{"A"}, EffectiveFromSprint: 2},
	})

	out := Render(summaries, []string{"A", "B", "X"}, []Metric{Committed, PercentCompleted})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)

	assert.Equal(t, "Sprint 1|10|50.00%|4|100.00%|0|N/A%|14|64.29%|", lines[2])
	assert.Equal(t, "Sprint 2|0|0.00%|4|100.00%|10|50.00%|14|64.29%|", lines[3])
	assert.Equal(t, "Totals|10|50.00%|8|100.00%|10|50.00%|28|64.29%|", lines[4])
}

func TestMetricParse(t *testing.T) {
	for _, m := range AllMetrics() {
		parsed, err := ParseMetric(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	_, err := ParseMetric("committed")
	assert.ErrorIs(t, err, ErrUnknownMetric)

	metrics, err := ParseMetrics([]string{"PercentCompleted", "Committed"})
	require.NoError(t, err)
	assert.Equal(t, []Metric{PercentCompleted, Committed}, metrics)

	_, err = ParseMetrics([]string{"Committed", "Velocity"})
	assert.ErrorIs(t, err, ErrUnknownMetric)

	assert.Equal(t, "Metric(9)", Metric(9).String())
}

func TestMetricUnmarshalText(t *testing.T) {
	var m Metric
	require.NoError(t, m.UnmarshalText([]byte("AllCompleted")))
	assert.Equal(t, AllCompleted, m)
	assert.Error(t, m.UnmarshalText([]byte("Nope")))
}

func TestFixed2(t *testing.T) {
	type testCase struct {
		in   float64
		want string
	}

	testCases := []testCase{
		{in: 0, want: "0.00"},
		{in: 50, want: "50.00"},
		{in: 100, want: "100.00"},
		{in: 0.125, want: "0.13"},
		{in: 0.375, want: "0.38"},
		{in: 0.625, want: "0.63"},
		{in: 12.125, want: "12.13"},
		{in: 64.28571428571429, want: "64.29"},
		// neither is an exact tie once stored as float64
		{in: 0.115, want: "0.12"},
		{in: 1.005, want: "1.00"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, fixed2(tc.in), "fixed2(%v)", tc.in)
	}
}

func TestRenderPercentTiesRoundUp(t *testing.T) {
	var summaries []*model.SprintSummary
	for i, done := range []int{1, 3, 5, 97} {
		summaries = append(summaries, &model.SprintSummary{
			SprintNumber: i + 1,
			Teams: []*model.TeamCounters{
				{Team: "A", Committed: 800, Completed: done, AllCompleted: done},
			},
		})
	}

	lines := strings.Split(Render(summaries, []string{"A"}, []Metric{PercentCompleted}), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Sprint 1|0.13%|0.13%|", lines[2])
	assert.Equal(t, "Sprint 2|0.38%|0.38%|", lines[3])
	assert.Equal(t, "Sprint 3|0.63%|0.63%|", lines[4])
	assert.Equal(t, "Sprint 4|12.13%|12.13%|", lines[5])
}
