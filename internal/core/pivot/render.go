// Package pivot renders sprint summaries as a delimited pivot table and reads
// such tables back.
package pivot

import (
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"exusiai.dev/sprintsummary/internal/model"
)

const (
	Delimiter = "|"

	cornerTitle  = "Sprint"
	totalsTitle  = "Sprint Totals"
	footerTitle  = "Totals"
	sprintPrefix = "Sprint "
)

// Render serializes summaries into the pivot grid: a two row header, one row
// per sprint number ascending and a final totals row without trailing newline.
// Teams are shown in ascending order; the teams slice itself is not modified.
// When several summaries share a sprint number the last one is used.
func Render(summaries []*model.SprintSummary, teams []string, metrics []Metric) string {
	shown := append([]string(nil), teams...)
	sort.Strings(shown)

	bySprint := make(map[int]map[string]*model.TeamCounters, len(summaries))
	for _, s := range summaries {
		if s == nil {
			continue
		}
		bySprint[s.SprintNumber] = s.TeamIndex()
	}
	sprints := lo.Keys(bySprint)
	sort.Ints(sprints)

	var sb strings.Builder
	writeHeader(&sb, shown, metrics)

	teamTotals := make([]tally, len(shown))
	var grand tally
	for _, n := range sprints {
		index := bySprint[n]
		sb.WriteString(sprintPrefix + strconv.Itoa(n) + Delimiter)

		var sprintTotal tally
		for i, team := range shown {
			var cell tally
			c, ok := index[team]
			if ok {
				cell.add(c)
				sprintTotal.add(c)
				teamTotals[i].add(c)
			}
			writeCells(&sb, metrics, cell, ok)
		}
		writeCells(&sb, metrics, sprintTotal, true)
		grand.merge(sprintTotal)
		sb.WriteString("\n")
	}

	sb.WriteString(footerTitle + Delimiter)
	for _, t := range teamTotals {
		writeCells(&sb, metrics, t, true)
	}
	writeCells(&sb, metrics, grand, true)

	return sb.String()
}

func writeHeader(sb *strings.Builder, teams []string, metrics []Metric) {
	padding := strings.Repeat(Delimiter, lo.Max([]int{len(metrics) - 1, 0}))

	sb.WriteString(cornerTitle + Delimiter)
	for _, team := range teams {
		sb.WriteString(team + Delimiter + padding)
	}
	sb.WriteString(totalsTitle + Delimiter + padding)
	sb.WriteString("\n")

	sb.WriteString(Delimiter)
	for i := 0; i <= len(teams); i++ {
		for _, m := range metrics {
			sb.WriteString(m.String() + Delimiter)
		}
	}
	sb.WriteString("\n")
}

func writeCells(sb *strings.Builder, metrics []Metric, t tally, present bool) {
	for _, m := range metrics {
		sb.WriteString(m.format(t, present) + Delimiter)
	}
}
