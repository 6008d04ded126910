package repositories

import (
	"context"

	"qraksha/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// employeeRepository implements EmployeeRepository interface
type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func orderedContacts(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Create inserts the employee and its contacts in one transaction
func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	for i := range employee.EmergencyContacts {
		employee.EmergencyContacts[i].Position = i
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(employee).Error
	})
}

// GetByID gets an employee with ordered contacts
func (r *employeeRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).
		Preload("EmergencyContacts", orderedContacts).
		Where("id = ?", id).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// GetByUsername gets an employee by username
func (r *employeeRepository) GetByUsername(ctx context.Context, username string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// GetByIDs gets employees without contacts; missing ids are skipped
func (r *employeeRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Employee, error) {
	var employees []*models.Employee
	if len(ids) == 0 {
		return employees, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&employees).Error
	return employees, err
}

// List lists all employees ordered by name
func (r *employeeRepository) List(ctx context.Context) ([]*models.Employee, error) {
	var employees []*models.Employee
	err := r.db.WithContext(ctx).
		Preload("EmergencyContacts", orderedContacts).
		Order("name ASC").
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

// UpdateProfile saves editable columns and, if asked, swaps the contact list
func (r *employeeRepository) UpdateProfile(ctx context.Context, employee *models.Employee, replaceContacts bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Employee{}).
			Where("id = ?", employee.ID).
			Select("name", "blood_type", "department", "medical_conditions", "updated_at").
			Updates(employee).Error
		if err != nil {
			return err
		}
		if !replaceContacts {
			return nil
		}

		if err := tx.Where("employee_id = ?", employee.ID).Delete(&models.EmergencyContact{}).Error; err != nil {
			return err
		}
		for i := range employee.EmergencyContacts {
			employee.EmergencyContacts[i].ID = 0
			employee.EmergencyContacts[i].EmployeeID = employee.ID
			employee.EmergencyContacts[i].Position = i
		}
		if len(employee.EmergencyContacts) == 0 {
			return nil
		}
		return tx.Create(&employee.EmergencyContacts).Error
	})
}

// Delete hard deletes an employee and its contacts, and its alerts when withAlerts is set
func (r *employeeRepository) Delete(ctx context.Context, id string, withAlerts bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&models.EmergencyContact{}).Error; err != nil {
			return err
		}
		if withAlerts {
			if err := tx.Where("employee_id = ?", id).Delete(&models.SOSAlert{}).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&models.Employee{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ExistsByUsername checks if username exists
func (r *employeeRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}
