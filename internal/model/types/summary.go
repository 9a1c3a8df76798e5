package types

import (
	"time"

	"gopkg.in/guregu/null.v3"

	"exusiai.dev/sprintsummary/internal/model"
)

// RefreshTask is the message published to the refresh queue.
type RefreshTask struct {
	TaskID   string   `json:"taskId"`
	Scope    string   `json:"scope"`
	Projects []string `json:"projects"`
	// CreatedAt is in microseconds
	CreatedAt int64 `json:"createdAt"`
}

type RefreshRequest struct {
	// Projects overrides the selected projects stored in the user settings.
	Projects []string `json:"projects" validate:"dive,required,max=256"`
}

type TableQuery struct {
	Format string `query:"format" validate:"omitempty,oneof=text pretty html"`
}

type CombinedTeamRequest struct {
	AliasName           string   `json:"aliasName" validate:"required,max=256"`
	MemberTeams         []string `json:"memberTeams" validate:"required,min=1,dive,required,max=256"`
	EffectiveFromSprint int      `json:"effectiveFromSprint" validate:"gte=0"`
	// ETag must match the stored revision when updating.
	ETag int `json:"etag"`
}

type SummariesResponse struct {
	Summaries []*model.SprintSummary `json:"summaries"`
}

// RefreshStatus describes the last refresh run of a scope seen by this
// process.
type RefreshStatus struct {
	Scope      string    `json:"scope"`
	Running    bool      `json:"running"`
	TaskID     string    `json:"taskId,omitempty"`
	Projects   []string  `json:"projects"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt null.Time `json:"finishedAt"`
	Error      string    `json:"error,omitempty"`
	// Sprints and Teams describe the last successful aggregation.
	Sprints      int       `json:"sprints"`
	Teams        []string  `json:"teams"`
	AggregatedAt null.Time `json:"aggregatedAt"`
}

type RefreshEnqueuedResponse struct {
	TaskID string `json:"taskId"`
}

const (
	CacheTable         = "table"
	CacheSummaries     = "summaries"
	CacheCombinedTeams = "combinedTeams"
	CacheProjects      = "projects"
)

type PurgeCacheRequest struct {
	Name string `json:"name" validate:"required,oneof=table summaries combinedTeams projects"`
}
