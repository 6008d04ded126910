package repositories

import (
	"context"
	"time"

	"qraksha/internal/adapters/persistence/models"
	"qraksha/internal/core/domain"

	"gorm.io/gorm"
)

// alertRepository implements AlertRepository interface
type alertRepository struct {
	db *gorm.DB
}

// NewAlertRepository creates a new SOS alert repository
func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

// Create creates a new alert
func (r *alertRepository) Create(ctx context.Context, alert *models.SOSAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

// GetByID gets an alert by ID
func (r *alertRepository) GetByID(ctx context.Context, id string) (*models.SOSAlert, error) {
	var alert models.SOSAlert
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&alert).Error
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

// List lists alerts newest first, optionally by status
func (r *alertRepository) List(ctx context.Context, status domain.AlertStatus) ([]*models.SOSAlert, error) {
	var alerts []*models.SOSAlert
	q := r.db.WithContext(ctx).Order("triggered_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// ListByEmployee lists one employee's alerts newest first
func (r *alertRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*models.SOSAlert, error) {
	var alerts []*models.SOSAlert
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("triggered_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

// ListActiveBefore lists active alerts raised before the given time, oldest first
func (r *alertRepository) ListActiveBefore(ctx context.Context, before time.Time) ([]*models.SOSAlert, error) {
	var alerts []*models.SOSAlert
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.AlertActive).
		Where("triggered_at < ?", before).
		Order("triggered_at ASC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

// CountActive counts active alerts
func (r *alertRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SOSAlert{}).
		Where("status = ?", domain.AlertActive).
		Count(&count).Error
	return count, err
}

// MarkResolved moves an active alert to resolved. It reports false when the alert was not active.
func (r *alertRepository) MarkResolved(ctx context.Context, id string, adminID uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SOSAlert{}).
		Where("id = ?", id).
		Where("status = ?", domain.AlertActive).
		Updates(map[string]interface{}{
			"status":      domain.AlertResolved,
			"resolved_at": at,
			"resolved_by": adminID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
