package service

import (
	"context"
	"time"

	"exusiai.dev/sprintsummary/internal/model/cache"
	"exusiai.dev/sprintsummary/internal/pkg/worktracker"
)

type Project struct {
	Tracker worktracker.Tracker
}

func NewProject(tracker worktracker.Tracker) *Project {
	return &Project{
		Tracker: tracker,
	}
}

// Cache: (singular) projectNames, 10 min
func (s *Project) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := cache.ProjectNames.MutexGetSet(&names, func() ([]string, error) {
		return s.Tracker.ListProjectNames(ctx)
	}, 10*time.Minute)
	return names, err
}
