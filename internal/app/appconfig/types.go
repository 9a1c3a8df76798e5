package appconfig

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Schedule is a cron expression validated while the configuration is parsed.
type Schedule struct {
	Expr string
	cron.Schedule
}

func (s *Schedule) Decode(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*s = Schedule{}
		return nil
	}
	sched, err := scheduleParser.Parse(value)
	if err != nil {
		return errors.Wrapf(err, "invalid cron expression %q", value)
	}
	*s = Schedule{Expr: value, Schedule: sched}
	return nil
}

func (s Schedule) Enabled() bool {
	return s.Schedule != nil
}
