package repositories

import (
	"context"
	"time"

	"qraksha/internal/adapters/persistence/models"
	"qraksha/internal/core/domain"
)

// EmployeeRepository defines employee repository interface
type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	GetByUsername(ctx context.Context, username string) (*models.Employee, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Employee, error)
	List(ctx context.Context) ([]*models.Employee, error)
	UpdateProfile(ctx context.Context, employee *models.Employee, replaceContacts bool) error
	Delete(ctx context.Context, id string, withAlerts bool) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// AdminRepository defines admin repository interface
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	Count(ctx context.Context) (int64, error)
}

// AlertRepository defines SOS alert repository interface
type AlertRepository interface {
	Create(ctx context.Context, alert *models.SOSAlert) error
	GetByID(ctx context.Context, id string) (*models.SOSAlert, error)
	List(ctx context.Context, status domain.AlertStatus) ([]*models.SOSAlert, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*models.SOSAlert, error)
	ListActiveBefore(ctx context.Context, before time.Time) ([]*models.SOSAlert, error)
	CountActive(ctx context.Context) (int64, error)
	MarkResolved(ctx context.Context, id string, adminID uint, at time.Time) (bool, error)
}
