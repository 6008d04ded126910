package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"qraksha/internal/adapters/persistence/models"
	"qraksha/internal/adapters/persistence/repositories"
	"qraksha/internal/core/domain"
	"qraksha/internal/pkg/metrics"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const notifyTimeout = 30 * time.Second

// AlertService handles SOS alerts: employees raise them, admins list and resolve them
type AlertService struct {
	alertRepo    repositories.AlertRepository
	employeeRepo repositories.EmployeeRepository
	notifier     AlertNotifier
	now          func() time.Time
}

// NewAlertService creates a new alert service
func NewAlertService(
	alertRepo repositories.AlertRepository,
	employeeRepo repositories.EmployeeRepository,
	notifier AlertNotifier,
) *AlertService {
	return &AlertService{
		alertRepo:    alertRepo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
		now:          time.Now,
	}
}

// TriggerSOSInput is the optional position sent with an SOS
type TriggerSOSInput struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// TriggerSOS records a new active alert for an employee
func (s *AlertService) TriggerSOS(ctx context.Context, employeeID string, input *TriggerSOSInput) (*models.AlertResponse, error) {
	alert := &models.SOSAlert{
		EmployeeID: employeeID,
		Timestamp:  s.now().UTC(),
		Status:     domain.AlertActive,
	}

	if input != nil && (input.Lat != nil || input.Lng != nil) {
		if input.Lat == nil || input.Lng == nil {
			return nil, domain.Invalid("lat and lng must be sent together")
		}
		loc := domain.Location{Lat: *input.Lat, Lng: *input.Lng}
		if err := loc.Validate(); err != nil {
			return nil, err
		}
		alert.Latitude, alert.Longitude = &loc.Lat, &loc.Lng
	}

	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}

	if err := s.alertRepo.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}

	metrics.SOSAlerts.WithLabelValues("triggered").Inc()
	log.Warn().
		Str("alert_id", alert.ID).
		Str("employee_id", employee.ID).
		Str("department", employee.Department).
		Bool("has_location", alert.Location() != nil).
		Msg("SOS triggered")

	resp := alert.ToResponse()
	resp.EmployeeName = employee.Name
	resp.Department = employee.Department

	s.dispatch("triggered", resp, s.notifier.NotifyTriggered)
	return resp, nil
}

// ListOwnAlerts returns one employee's alerts newest first
func (s *AlertService) ListOwnAlerts(ctx context.Context, employeeID string) ([]*models.AlertResponse, error) {
	alerts, err := s.alertRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	out := make([]*models.AlertResponse, len(alerts))
	for i, a := range alerts {
		out[i] = a.ToResponse()
	}
	return out, nil
}

// ListAlerts returns alerts newest first, with the raising employee attached when it still exists
func (s *AlertService) ListAlerts(ctx context.Context, status domain.AlertStatus) ([]*models.AlertResponse, error) {
	alerts, err := s.alertRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}

	ids := make([]string, 0, len(alerts))
	seen := make(map[string]struct{}, len(alerts))
	for _, a := range alerts {
		if _, ok := seen[a.EmployeeID]; !ok {
			seen[a.EmployeeID] = struct{}{}
			ids = append(ids, a.EmployeeID)
		}
	}
	employees, err := s.employeeRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load alert employees: %w", err)
	}
	byID := make(map[string]*models.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	out := make([]*models.AlertResponse, len(alerts))
	for i, a := range alerts {
		resp := a.ToResponse()
		if e, ok := byID[a.EmployeeID]; ok {
			resp.EmployeeName = e.Name
			resp.Department = e.Department
		} else {
			resp.EmployeeMissing = true
		}
		out[i] = resp
	}
	return out, nil
}

// ResolveAlert marks an alert resolved. Resolving a resolved alert is a no-op.
func (s *AlertService) ResolveAlert(ctx context.Context, id string, adminID uint) (*models.AlertResponse, error) {
	alert, err := s.alertRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAlertNotFound
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	if !alert.IsActive() {
		return alert.ToResponse(), nil
	}

	changed, err := s.alertRepo.MarkResolved(ctx, id, adminID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("resolve alert: %w", err)
	}
	if changed {
		metrics.SOSAlerts.WithLabelValues("resolved").Inc()
		log.Info().Str("alert_id", id).Uint("admin_id", adminID).Msg("SOS resolved")
	}

	alert, err = s.alertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload alert: %w", err)
	}
	resp := alert.ToResponse()

	if changed {
		if employee, err := s.employeeRepo.GetByID(ctx, alert.EmployeeID); err == nil {
			resp.EmployeeName = employee.Name
			resp.Department = employee.Department
		}
		s.dispatch("resolved", resp, s.notifier.NotifyResolved)
	}
	return resp, nil
}

// dispatch delivers a notification in the background; the request never waits on the webhook
func (s *AlertService) dispatch(event string, alert *models.AlertResponse, notify func(context.Context, *models.AlertResponse) error) {
	if !s.notifier.IsEnabled() {
		return
	}
	snapshot := *alert
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := notify(ctx, &snapshot); err != nil {
			log.Error().Err(err).Str("event", event).Str("alert_id", snapshot.ID).Msg("alert notification failed")
		}
	}()
}
