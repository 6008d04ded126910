package services

import (
	"context"
	"fmt"
	"time"

	"qraksha/internal/adapters/persistence/repositories"
	"qraksha/internal/config"
	"qraksha/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// AlertMonitor periodically reports active SOS alerts that nobody has resolved yet.
// It never changes an alert.
type AlertMonitor struct {
	alertRepo     repositories.AlertRepository
	schedule      string
	escalateAfter time.Duration
	cron          *cron.Cron
	now           func() time.Time
}

// NewAlertMonitor creates a new alert monitor
func NewAlertMonitor(alertRepo repositories.AlertRepository, cfg *config.Config) *AlertMonitor {
	return &AlertMonitor{
		alertRepo:     alertRepo,
		schedule:      cfg.Alerts.SweepSchedule,
		escalateAfter: cfg.Alerts.EscalateAfter(),
		cron:          cron.New(),
		now:           time.Now,
	}
}

// Start registers the sweep job and starts the scheduler
func (m *AlertMonitor) Start() error {
	_, err := m.cron.AddFunc(m.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := m.Sweep(ctx); err != nil {
			log.Error().Err(err).Msg("alert sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid ALERT_SWEEP_SCHEDULE %q: %w", m.schedule, err)
	}
	m.cron.Start()
	log.Info().Str("schedule", m.schedule).Dur("escalate_after", m.escalateAfter).Msg("alert monitor started")
	return nil
}

// Stop waits for a running sweep to finish
func (m *AlertMonitor) Stop() {
	<-m.cron.Stop().Done()
	log.Info().Msg("alert monitor stopped")
}

// Sweep updates the active-alert gauge and warns about stale alerts. It returns the stale count.
func (m *AlertMonitor) Sweep(ctx context.Context) (int, error) {
	active, err := m.alertRepo.CountActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("count active alerts: %w", err)
	}
	metrics.ActiveAlerts.Set(float64(active))

	now := m.now().UTC()
	stale, err := m.alertRepo.ListActiveBefore(ctx, now.Add(-m.escalateAfter))
	if err != nil {
		return 0, fmt.Errorf("list stale alerts: %w", err)
	}
	for _, a := range stale {
		log.Warn().
			Str("alert_id", a.ID).
			Str("employee_id", a.EmployeeID).
			Dur("open_for", now.Sub(a.Timestamp)).
			Msg("SOS alert still active")
	}
	return len(stale), nil
}
