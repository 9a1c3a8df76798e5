package model

import (
	"time"

	"github.com/samber/lo"
	"github.com/uptrace/bun"
)

// TeamCounters holds the work item counters of one team within one sprint.
type TeamCounters struct {
	Team             string  `json:"team"`
	Committed        int     `json:"committed"`
	Completed        int     `json:"completed"`
	AllCompleted     int     `json:"allCompleted"`
	PercentCompleted float64 `json:"percentCompleted"`
}

func (c *TeamCounters) Reset() {
	c.Committed = 0
	c.Completed = 0
	c.AllCompleted = 0
	c.PercentCompleted = 0
}

type SprintSummary struct {
	bun.BaseModel `bun:"sprint_summaries,alias:ss" msgpack:"-"`

	ID           string          `bun:",pk" json:"id"`
	Scope        string          `bun:",notnull" json:"-"`
	SprintNumber int             `bun:",notnull" json:"sprintNumber"`
	Teams        []*TeamCounters `bun:"type:jsonb" json:"teamData"`
	ETag         int             `bun:"etag,notnull" json:"etag"`
	CreatedAt    time.Time       `bun:",nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// Team returns the counters of the named team, or nil when the team has no
// entry in this sprint.
func (s *SprintSummary) Team(name string) *TeamCounters {
	c, ok := lo.Find(s.Teams, func(c *TeamCounters) bool {
		return c.Team == name
	})
	if !ok {
		return nil
	}
	return c
}

// TeamIndex maps team names to their counters. The first entry wins when a
// team is listed more than once.
func (s *SprintSummary) TeamIndex() map[string]*TeamCounters {
	index := make(map[string]*TeamCounters, len(s.Teams))
	for _, c := range s.Teams {
		if _, ok := index[c.Team]; !ok {
			index[c.Team] = c
		}
	}
	return index
}

// PercentOf returns numerator/denominator*100, or 0 when denominator is 0.
func PercentOf(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}
