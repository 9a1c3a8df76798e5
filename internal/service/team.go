package service

import (
	"context"

	"github.com/samber/lo"

	"exusiai.dev/sprintsummary/internal/model"
)

type Team struct {
	SprintSummaryService *SprintSummary
	CombinedTeamService  *CombinedTeam
}

func NewTeam(sprintSummaryService *SprintSummary, combinedTeamService *CombinedTeam) *Team {
	return &Team{
		SprintSummaryService: sprintSummaryService,
		CombinedTeamService:  combinedTeamService,
	}
}

// Available lists the teams a user can pick from: every team in the stored
// summaries of scope by first appearance, then every combined team alias.
func (s *Team) Available(ctx context.Context, scope string) ([]string, error) {
	summaries, err := s.SprintSummaryService.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	combined, err := s.CombinedTeamService.List(ctx)
	if err != nil {
		return nil, err
	}
	return availableTeams(summaries, combined), nil
}

func availableTeams(summaries []*model.SprintSummary, combined []*model.CombinedTeam) []string {
	teams := make([]string, 0)
	for _, s := range summaries {
		for _, c := range s.Teams {
			teams = append(teams, c.Team)
		}
	}
	for _, c := range combined {
		teams = append(teams, c.AliasName)
	}
	return lo.Uniq(teams)
}
