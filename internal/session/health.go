package session

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper runs HealthCheck on a recurring schedule, independent of user
// requests. Probes carry their own short timeout, so the sweep never
// blocks user-initiated connects or queries for long.
type Sweeper struct {
	cron *cron.Cron
}

// StartHealthSweep schedules a health check every interval and starts the
// scheduler. Stop the returned Sweeper at shutdown.
func (m *Manager) StartHealthSweep(interval time.Duration) (*Sweeper, error) {
	c := cron.New()
	spec := fmt.Sprintf("@every %s", interval)
	if _, err := c.AddFunc(spec, func() {
		m.HealthCheck(context.Background())
	}); err != nil {
		return nil, err
	}
	c.Start()
	m.log.With().Str("interval", interval.String()).Logger().Info("health sweep started")
	return &Sweeper{cron: c}, nil
}

// Stop halts the schedule. A sweep already in flight runs to completion.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
