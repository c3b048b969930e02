package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// SessionCleaner removes sessions past their expiry.
type SessionCleaner interface {
	CleanupSessions(ctx context.Context) (int64, error)
}

// MaintenanceService runs periodic housekeeping jobs.
type MaintenanceService struct {
	cron     *cron.Cron
	sessions SessionCleaner
	logger   zerolog.Logger
	timeout  time.Duration
}

// NewMaintenanceService schedules the session cleanup job on schedule, a
// standard cron expression or descriptor such as "@hourly".
func NewMaintenanceService(sessions SessionCleaner, schedule string, logger zerolog.Logger) (*MaintenanceService, error) {
	if schedule == "" {
		schedule = "@hourly"
	}

	m := &MaintenanceService{
		cron:     cron.New(),
		sessions: sessions,
		logger:   logger.With().Str("component", "maintenance").Logger(),
		timeout:  time.Minute,
	}
	if _, err := m.cron.AddFunc(schedule, m.cleanupSessions); err != nil {
		return nil, fmt.Errorf("invalid session cleanup schedule %q: %w", schedule, err)
	}
	return m, nil
}

// Start runs the scheduler in the background.
func (m *MaintenanceService) Start() {
	m.cron.Start()
}

// Stop stops scheduling and waits for a running job to finish or ctx to end.
func (m *MaintenanceService) Stop(ctx context.Context) {
	done := m.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (m *MaintenanceService) cleanupSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	if _, err := m.sessions.CleanupSessions(ctx); err != nil {
		m.logger.Error().Err(err).Msg("session cleanup failed")
	}
}
