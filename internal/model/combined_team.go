package model

import (
	"time"

	"github.com/uptrace/bun"
)

// CombinedTeam folds the counters of MemberTeams into AliasName for every
// sprint numbered EffectiveFromSprint or later.
type CombinedTeam struct {
	bun.BaseModel `bun:"combined_teams,alias:ct" msgpack:"-" yaml:"-"`

	ID                  string    `bun:",pk" json:"id" yaml:"-"`
	Scope               string    `bun:",notnull" json:"-" yaml:"-"`
	AliasName           string    `bun:",notnull" json:"aliasName" yaml:"aliasName"`
	MemberTeams         []string  `bun:"type:jsonb" json:"memberTeams" yaml:"memberTeams"`
	EffectiveFromSprint int       `bun:",notnull" json:"effectiveFromSprint" yaml:"effectiveFromSprint"`
	ETag                int       `bun:"etag,notnull" json:"etag" yaml:"-"`
	CreatedAt           time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"createdAt" yaml:"-"`
}
