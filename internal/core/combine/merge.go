// Package combine re-groups team counters under combined team aliases.
package combine

import (
	"github.com/samber/lo"

	"exusiai.dev/sprintsummary/internal/model"
)

// Merge applies rules to summaries in place, in rule order. For every summary
// at or after a rule's effective sprint the member counters are added to the
// alias entry (created when missing) and the member entries are zeroed but
// kept. Members absent from a sprint, and a member naming the alias itself,
// are skipped.
func Merge(summaries []*model.SprintSummary, rules []*model.CombinedTeam) {
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		for _, s := range summaries {
			if s.SprintNumber < rule.EffectiveFromSprint {
				continue
			}
			apply(s, rule)
		}
	}
}

func apply(s *model.SprintSummary, rule *model.CombinedTeam) {
	alias := s.Team(rule.AliasName)
	if alias == nil {
		alias = &model.TeamCounters{Team: rule.AliasName}
		s.Teams = append(s.Teams, alias)
	}

	for _, name := range lo.Uniq(rule.MemberTeams) {
		if name == rule.AliasName {
			continue
		}
		member := s.Team(name)
		if member == nil {
			continue
		}
		alias.Committed += member.Committed
		alias.Completed += member.Completed
		alias.AllCompleted += member.AllCompleted
		member.Reset()
	}

	alias.PercentCompleted = model.PercentOf(alias.AllCompleted, alias.Committed)
}
