package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron"
)

// ConstantDelay fires exactly Delay after the given time. cron.Every rounds
// down to the second, which would let two ticks land closer than Delay.
type ConstantDelay struct {
	Delay time.Duration
}

func (s ConstantDelay) Next(t time.Time) time.Time {
	return t.Add(s.Delay)
}

// Schedule returns the poll schedule: the cron spec from POLL_SCHEDULE when
// set (6 fields, seconds first), otherwise a constant POLL_INTERVAL delay.
func (c Config) Schedule() (cron.Schedule, error) {
	if c.Poll.Schedule == "" {
		return ConstantDelay{Delay: c.PollInterval()}, nil
	}

	sched, err := cron.Parse(c.Poll.Schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_SCHEDULE %q: %w", c.Poll.Schedule, err)
	}
	return sched, nil
}
