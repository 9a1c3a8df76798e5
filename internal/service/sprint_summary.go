package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"exusiai.dev/sprintsummary/internal/app/appconfig"
	"exusiai.dev/sprintsummary/internal/model"
	"exusiai.dev/sprintsummary/internal/model/cache"
	"exusiai.dev/sprintsummary/internal/repo"
)

type SprintSummary struct {
	conf *appconfig.Config

	SprintSummaryRepo *repo.SprintSummary
}

func NewSprintSummary(conf *appconfig.Config, sprintSummaryRepo *repo.SprintSummary) *SprintSummary {
	return &SprintSummary{
		conf:              conf,
		SprintSummaryRepo: sprintSummaryRepo,
	}
}

// Cache: summaries#scope:{scope}, SummaryCacheTTL
func (s *SprintSummary) List(ctx context.Context, scope string) ([]*model.SprintSummary, error) {
	var summaries []*model.SprintSummary
	_, err := cache.SummariesByScope.MutexGetSet(ctx, scope, &summaries, func() ([]*model.SprintSummary, error) {
		return s.SprintSummaryRepo.ListByScope(ctx, scope)
	}, s.conf.SummaryCacheTTL)
	return summaries, err
}

// Replace persists summaries as the only summaries of scope and drops the
// caches derived from the previous ones.
func (s *SprintSummary) Replace(ctx context.Context, scope string, summaries []*model.SprintSummary) error {
	if err := s.SprintSummaryRepo.ReplaceAll(ctx, scope, summaries); err != nil {
		return err
	}

	if err := cache.SummariesByScope.Delete(ctx, scope); err != nil {
		log.Warn().Err(err).Str("scope", scope).Msg("failed to invalidate summaries cache")
	}
	if err := cache.TableByKey.Clear(ctx, scope+"|*"); err != nil {
		log.Warn().Err(err).Str("scope", scope).Msg("failed to invalidate table cache")
	}
	return nil
}
