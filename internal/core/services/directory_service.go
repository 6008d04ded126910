package services

import (
	"context"
	"errors"
	"fmt"

	"qraksha/internal/adapters/cache"
	"qraksha/internal/adapters/persistence/models"
	"qraksha/internal/adapters/persistence/repositories"
	"qraksha/internal/config"
	"qraksha/internal/core/domain"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DirectoryService serves the admin view of employees
type DirectoryService struct {
	employeeRepo repositories.EmployeeRepository
	cache        cache.Cache
	cfg          *config.Config
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(
	employeeRepo repositories.EmployeeRepository,
	profileCache cache.Cache,
	cfg *config.Config,
) *DirectoryService {
	return &DirectoryService{
		employeeRepo: employeeRepo,
		cache:        profileCache,
		cfg:          cfg,
	}
}

// ListEmployees returns every employee matching filter, ordered by name
func (s *DirectoryService) ListEmployees(ctx context.Context, filter domain.EmployeeFilter) ([]*models.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	out := make([]*models.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		if !filter.Match(e.Name, e.Department, e.BloodType, e.MedicalConditions) {
			continue
		}
		out = append(out, e.ToResponse())
	}
	return out, nil
}

// GetEmployee returns one employee
func (s *DirectoryService) GetEmployee(ctx context.Context, id string) (*models.EmployeeResponse, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return employee.ToResponse(), nil
}

// DeleteEmployee hard deletes an employee. Alerts follow the configured delete policy.
func (s *DirectoryService) DeleteEmployee(ctx context.Context, id string) error {
	cascade := s.cfg.Alerts.DeletePolicy == config.AlertPolicyCascade

	if err := s.employeeRepo.Delete(ctx, id, cascade); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrEmployeeNotFound
		}
		return fmt.Errorf("delete employee: %w", err)
	}

	if err := s.cache.Delete(ctx, cache.EmployeeKey(id)); err != nil {
		log.Warn().Err(err).Str("employee_id", id).Msg("profile cache invalidation failed")
	}

	log.Info().Str("employee_id", id).Bool("alerts_deleted", cascade).Msg("employee deleted")
	return nil
}
