package services

import (
	"context"
	"fmt"
	"time"

	"qraksha/internal/adapters/persistence/models"
	"qraksha/internal/config"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// AlertNotifier is told about alert lifecycle events
type AlertNotifier interface {
	IsEnabled() bool
	NotifyTriggered(ctx context.Context, alert *models.AlertResponse) error
	NotifyResolved(ctx context.Context, alert *models.AlertResponse) error
}

// WebhookMessage is the JSON body posted to the webhook
type WebhookMessage struct {
	Event        string    `json:"event"`
	AlertID      string    `json:"alertId"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName,omitempty"`
	Department   string    `json:"department,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Lat          *float64  `json:"lat,omitempty"`
	Lng          *float64  `json:"lng,omitempty"`
	Text         string    `json:"text"`
}

// NotificationService posts SOS events to a chat or paging webhook
type NotificationService struct {
	client  *resty.Client
	enabled bool
}

// NewNotificationService creates a new notification service. Without a webhook URL it does nothing.
func NewNotificationService(cfg config.NotifyConfig) *NotificationService {
	client := resty.New().
		SetBaseURL(cfg.WebhookURL).
		SetTimeout(cfg.Timeout()).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Content-Type", "application/json")
	if cfg.WebhookToken != "" {
		client.SetAuthToken(cfg.WebhookToken)
	}

	return &NotificationService{
		client:  client,
		enabled: cfg.WebhookURL != "",
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// NotifyTriggered announces a new SOS
func (s *NotificationService) NotifyTriggered(ctx context.Context, alert *models.AlertResponse) error {
	msg := newWebhookMessage("sos.triggered", alert)
	msg.Text = fmt.Sprintf("SOS from %s (%s)", displayName(alert), alert.Department)
	if alert.Location != nil {
		msg.Lat, msg.Lng = &alert.Location.Lat, &alert.Location.Lng
		msg.Text += fmt.Sprintf(" at %.5f,%.5f", alert.Location.Lat, alert.Location.Lng)
	}
	return s.send(ctx, msg)
}

// NotifyResolved announces that an SOS was handled
func (s *NotificationService) NotifyResolved(ctx context.Context, alert *models.AlertResponse) error {
	msg := newWebhookMessage("sos.resolved", alert)
	msg.Text = fmt.Sprintf("SOS from %s resolved", displayName(alert))
	return s.send(ctx, msg)
}

func (s *NotificationService) send(ctx context.Context, msg *WebhookMessage) error {
	if !s.enabled {
		return nil
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(msg).
		Post("")
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook answered %d", resp.StatusCode())
	}

	log.Debug().Str("event", msg.Event).Str("alert_id", msg.AlertID).Msg("webhook delivered")
	return nil
}

func newWebhookMessage(event string, alert *models.AlertResponse) *WebhookMessage {
	return &WebhookMessage{
		Event:        event,
		AlertID:      alert.ID,
		EmployeeID:   alert.EmployeeID,
		EmployeeName: alert.EmployeeName,
		Department:   alert.Department,
		Timestamp:    alert.Timestamp,
	}
}

func displayName(alert *models.AlertResponse) string {
	if alert.EmployeeName != "" {
		return alert.EmployeeName
	}
	return alert.EmployeeID
}
