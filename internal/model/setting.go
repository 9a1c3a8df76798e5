package model

import (
	"time"

	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"
)

const (
	SettingKeyUserSettings = "settingskey"

	DefaultStartingSprint = 0
	DefaultEndingSprint   = 100
)

type Setting struct {
	bun.BaseModel `bun:"settings,alias:st"`

	Key       string        `bun:",pk"`
	Scope     string        `bun:",pk"`
	Value     *UserSettings `bun:"type:jsonb"`
	UpdatedAt time.Time     `bun:",nullzero,notnull,default:current_timestamp"`
}

// UserSettings are the table options a user picked last time.
type UserSettings struct {
	SelectedProjects []string `json:"selectedProjects" validate:"dive,required"`
	SelectedColumns  []string `json:"selectedColumns" validate:"dive,metric"`
	SelectedTeams    []string `json:"selectedTeams" validate:"dive,required"`
	StartingSprint   null.Int `json:"startingSprint" validate:"gte=0"`
	EndingSprint     null.Int `json:"endingSprint" validate:"gte=0"`
}

// SprintRange returns the inclusive sprint number range, falling back to
// 0..100 for bounds that are unset or zero.
func (s *UserSettings) SprintRange() (start, end int) {
	start, end = DefaultStartingSprint, DefaultEndingSprint
	if s == nil {
		return start, end
	}
	if v := s.StartingSprint.ValueOrZero(); v != 0 {
		start = int(v)
	}
	if v := s.EndingSprint.ValueOrZero(); v != 0 {
		end = int(v)
	}
	return start, end
}
