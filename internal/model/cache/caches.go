package cache

import (
	"github.com/redis/go-redis/v9"

	"exusiai.dev/sprintsummary/internal/model"
	"exusiai.dev/sprintsummary/internal/pkg/cache"
)

var (
	// SummariesByScope holds the stored sprint summaries of a document scope.
	SummariesByScope *cache.Set[[]*model.SprintSummary]

	// TableByKey holds rendered tables, keyed by scope and a fingerprint of the
	// options they were rendered with.
	TableByKey *cache.Set[string]

	CombinedTeams *cache.Set[[]*model.CombinedTeam]

	ProjectNames *cache.Singular[[]string]
)

func Initialize(client *redis.Client) {
	SummariesByScope = cache.NewSet[[]*model.SprintSummary](client, "summaries#scope")
	TableByKey = cache.NewSet[string](client, "table#key")
	CombinedTeams = cache.NewSet[[]*model.CombinedTeam](client, "combinedTeams#scope")

	ProjectNames = cache.NewSingular[[]string]("projectNames")
}
