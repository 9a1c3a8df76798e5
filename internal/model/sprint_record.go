package model

import "time"

// SprintRecord is the raw per-project result of gathering one iteration from
// the work tracker. Counter maps are keyed by team name.
type SprintRecord struct {
	SprintNumber       int            `json:"sprintNumber" yaml:"sprintNumber"`
	Path               string         `json:"path" yaml:"path"`
	StartTime          time.Time      `json:"startTime" yaml:"startTime"`
	EndTime            time.Time      `json:"endTime" yaml:"endTime"`
	CommittedByTeam    map[string]int `json:"committedByTeam" yaml:"committedByTeam"`
	CompletedByTeam    map[string]int `json:"completedByTeam" yaml:"completedByTeam"`
	AllCompletedByTeam map[string]int `json:"allCompletedByTeam" yaml:"allCompletedByTeam"`
}
