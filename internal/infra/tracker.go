package infra

import (
	"exusiai.dev/sprintsummary/internal/app/appconfig"
	"exusiai.dev/sprintsummary/internal/pkg/worktracker"
)

func Tracker(conf *appconfig.Config) (worktracker.Tracker, error) {
	return worktracker.New(worktracker.Config{
		OrganizationURL: conf.TrackerOrganizationURL,
		Token:           conf.TrackerToken,
		Timeout:         conf.TrackerTimeout,
		RetryAttempts:   conf.TrackerRetryAttempts,
		QueryLimit:      conf.TrackerQueryLimit,
	})
}
