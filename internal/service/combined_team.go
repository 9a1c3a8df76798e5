package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"exusiai.dev/sprintsummary/internal/model"
	"exusiai.dev/sprintsummary/internal/model/cache"
	"exusiai.dev/sprintsummary/internal/model/types"
	"exusiai.dev/sprintsummary/internal/repo"
)

// CombinedTeam manages the combined teams shared by every user.
type CombinedTeam struct {
	CombinedTeamRepo *repo.CombinedTeam
}

func NewCombinedTeam(combinedTeamRepo *repo.CombinedTeam) *CombinedTeam {
	return &CombinedTeam{
		CombinedTeamRepo: combinedTeamRepo,
	}
}

// Cache: combinedTeams#scope:shared, until modified
func (s *CombinedTeam) List(ctx context.Context) ([]*model.CombinedTeam, error) {
	var teams []*model.CombinedTeam
	_, err := cache.CombinedTeams.MutexGetSet(ctx, model.ScopeShared, &teams, func() ([]*model.CombinedTeam, error) {
		return s.CombinedTeamRepo.List(ctx, model.ScopeShared)
	}, 0)
	return teams, err
}

func (s *CombinedTeam) Create(ctx context.Context, req *types.CombinedTeamRequest) (*model.CombinedTeam, error) {
	team := fromRequest(req)
	if err := s.CombinedTeamRepo.Create(ctx, model.ScopeShared, team); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return team, nil
}

// Update replaces the combined team id; req.ETag must carry the revision the
// client last read.
func (s *CombinedTeam) Update(ctx context.Context, id string, req *types.CombinedTeamRequest) (*model.CombinedTeam, error) {
	team := fromRequest(req)
	if err := s.CombinedTeamRepo.Replace(ctx, model.ScopeShared, id, req.ETag, team); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return team, nil
}

func (s *CombinedTeam) Delete(ctx context.Context, id string) error {
	if err := s.CombinedTeamRepo.Delete(ctx, model.ScopeShared, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// invalidate drops the cached list and every rendered table, since all of
// them may have been merged with the old rules.
func (s *CombinedTeam) invalidate(ctx context.Context) {
	if err := cache.CombinedTeams.Delete(ctx, model.ScopeShared); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate combined teams cache")
	}
	if err := cache.TableByKey.Clear(ctx, ""); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate table cache")
	}
}

func fromRequest(req *types.CombinedTeamRequest) *model.CombinedTeam {
	return &model.CombinedTeam{
		AliasName:           req.AliasName,
		MemberTeams:         lo.Uniq(req.MemberTeams),
		EffectiveFromSprint: req.EffectiveFromSprint,
	}
}
