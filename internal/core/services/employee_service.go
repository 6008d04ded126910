package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"qraksha/internal/adapters/cache"
	"qraksha/internal/adapters/persistence/models"
	"qraksha/internal/adapters/persistence/repositories"
	"qraksha/internal/config"
	"qraksha/internal/core/domain"
	"qraksha/internal/pkg/metrics"
	"qraksha/internal/pkg/password"
	"qraksha/internal/pkg/qrcode"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// EmployeeService handles registration, QR issuing and self-service profile edits
type EmployeeService struct {
	employeeRepo repositories.EmployeeRepository
	cache        cache.Cache
	cfg          *config.Config
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(
	employeeRepo repositories.EmployeeRepository,
	profileCache cache.Cache,
	cfg *config.Config,
) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		cache:        profileCache,
		cfg:          cfg,
	}
}

// ContactInput is one emergency contact as submitted by a client
type ContactInput struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

// RegisterInput represents registration input
type RegisterInput struct {
	Username          string         `json:"username"`
	Name              string         `json:"name"`
	BloodType         string         `json:"bloodType"`
	Department        string         `json:"department"`
	EmergencyContacts []ContactInput `json:"emergencyContacts"`
	MedicalConditions []string       `json:"medicalConditions"`
	Password          string         `json:"password"`
}

// UpdateProfileInput carries the fields an employee may edit; nil means unchanged
type UpdateProfileInput struct {
	Name              *string         `json:"name"`
	BloodType         *string         `json:"bloodType"`
	Department        *string         `json:"department"`
	EmergencyContacts *[]ContactInput `json:"emergencyContacts"`
	MedicalConditions *[]string       `json:"medicalConditions"`
}

const registerRequiredMessage = "All fields are required, and emergencyContacts must be a non-empty array."

// Register validates and stores a new employee together with its QR payload
func (s *EmployeeService) Register(ctx context.Context, input *RegisterInput) (*models.EmployeeResponse, error) {
	username := strings.TrimSpace(input.Username)
	name := strings.TrimSpace(input.Name)
	bloodType := strings.TrimSpace(input.BloodType)
	department := strings.TrimSpace(input.Department)

	if username == "" || name == "" || bloodType == "" || department == "" ||
		strings.TrimSpace(input.Password) == "" || len(input.EmergencyContacts) == 0 {
		return nil, domain.Invalid(registerRequiredMessage)
	}
	if len(input.Password) > password.MaxBytes {
		return nil, domain.Invalid(password.ErrTooLong.Error())
	}
	contacts, err := buildContacts(input.EmergencyContacts)
	if err != nil {
		return nil, err
	}

	exists, err := s.employeeRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, domain.ErrUsernameTaken
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// The id is fixed up front so the payload is stored with the row
	id := uuid.NewString()
	employee := &models.Employee{
		ID:                id,
		Username:          username,
		Name:              name,
		BloodType:         bloodType,
		Department:        department,
		EmergencyContacts: contacts,
		MedicalConditions: normalizeConditions(input.MedicalConditions),
		Password:          hashedPassword,
		QRCode:            qrcode.Payload(s.cfg.QR.BaseURL, id),
	}

	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create employee: %w", err)
	}

	metrics.Registrations.Inc()
	log.Info().Str("employee_id", employee.ID).Str("username", employee.Username).Msg("employee registered")

	return employee.ToResponse(), nil
}

// GetProfile returns an employee straight from the store
func (s *EmployeeService) GetProfile(ctx context.Context, id string) (*models.EmployeeResponse, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return employee.ToResponse(), nil
}

// GetPublicProfile serves QR scans and goes through the profile cache
func (s *EmployeeService) GetPublicProfile(ctx context.Context, id string) (*models.EmployeeResponse, error) {
	key := cache.EmployeeKey(id)

	if raw, err := s.cache.Get(ctx, key); err == nil {
		var cached models.EmployeeResponse
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
		log.Warn().Str("key", key).Msg("dropping undecodable cache entry")
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn().Err(err).Str("key", key).Msg("profile cache read failed")
	}

	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(profile); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.cfg.Cache.TTL()); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("profile cache write failed")
		}
	}
	return profile, nil
}

// UpdateProfile applies an employee's own edits. The QR payload never changes.
func (s *EmployeeService) UpdateProfile(ctx context.Context, id string, input *UpdateProfileInput) (*models.EmployeeResponse, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}

	if input.Name != nil {
		if employee.Name = strings.TrimSpace(*input.Name); employee.Name == "" {
			return nil, domain.Invalid("name cannot be empty")
		}
	}
	if input.BloodType != nil {
		if employee.BloodType = strings.TrimSpace(*input.BloodType); employee.BloodType == "" {
			return nil, domain.Invalid("bloodType cannot be empty")
		}
	}
	if input.Department != nil {
		if employee.Department = strings.TrimSpace(*input.Department); employee.Department == "" {
			return nil, domain.Invalid("department cannot be empty")
		}
	}
	if input.MedicalConditions != nil {
		employee.MedicalConditions = normalizeConditions(*input.MedicalConditions)
	}
	replaceContacts := input.EmergencyContacts != nil
	if replaceContacts {
		if len(*input.EmergencyContacts) == 0 {
			return nil, domain.Invalid("emergencyContacts must be a non-empty array")
		}
		contacts, err := buildContacts(*input.EmergencyContacts)
		if err != nil {
			return nil, err
		}
		employee.EmergencyContacts = contacts
	}

	if err := s.employeeRepo.UpdateProfile(ctx, employee, replaceContacts); err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}
	s.invalidate(ctx, id)

	log.Info().Str("employee_id", id).Msg("employee profile updated")
	return s.GetProfile(ctx, id)
}

// QRCodePNG renders the stored QR payload of an employee
func (s *EmployeeService) QRCodePNG(ctx context.Context, id string, size int) ([]byte, error) {
	payload, err := s.qrPayload(ctx, id)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.PNG(payload, size)
	if err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}
	return png, nil
}

// QRCodeDataURL renders the same image as a data URL for clients that embed it inline
func (s *EmployeeService) QRCodeDataURL(ctx context.Context, id string, size int) (string, error) {
	payload, err := s.qrPayload(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := qrcode.DataURL(payload, size)
	if err != nil {
		return "", fmt.Errorf("render qr: %w", err)
	}
	return url, nil
}

func (s *EmployeeService) qrPayload(ctx context.Context, id string) (string, error) {
	profile, err := s.GetPublicProfile(ctx, id)
	if err != nil {
		return "", err
	}
	if profile.QRCode == "" {
		return qrcode.Payload(s.cfg.QR.BaseURL, profile.ID), nil
	}
	return profile.QRCode, nil
}

func (s *EmployeeService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, cache.EmployeeKey(id)); err != nil {
		log.Warn().Err(err).Str("employee_id", id).Msg("profile cache invalidation failed")
	}
}

func buildContacts(in []ContactInput) ([]models.EmergencyContact, error) {
	contacts := make([]models.EmergencyContact, 0, len(in))
	for i, c := range in {
		name := strings.TrimSpace(c.Name)
		phone := strings.TrimSpace(c.Phone)
		if name == "" || phone == "" {
			return nil, domain.Invalid(fmt.Sprintf("emergencyContacts[%d] needs a name and a phone", i))
		}
		contacts = append(contacts, models.EmergencyContact{
			Position:     i,
			Name:         name,
			Relationship: strings.TrimSpace(c.Relationship),
			Phone:        phone,
		})
	}
	return contacts, nil
}

// normalizeConditions trims, drops blanks and de-duplicates case-insensitively, keeping first spelling
func normalizeConditions(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
