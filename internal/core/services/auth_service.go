package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"qraksha/internal/adapters/persistence/repositories"
	"qraksha/internal/config"
	"qraksha/internal/core/domain"
	"qraksha/internal/pkg/jwt"
	"qraksha/internal/pkg/metrics"
	"qraksha/internal/pkg/password"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AuthService handles authentication for both principal types
type AuthService struct {
	adminRepo    repositories.AdminRepository
	employeeRepo repositories.EmployeeRepository
	cfg          *config.Config

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new auth service
func NewAuthService(
	adminRepo repositories.AdminRepository,
	employeeRepo repositories.EmployeeRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		adminRepo:    adminRepo,
		employeeRepo: employeeRepo,
		cfg:          cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is what a successful login hands back
type LoginResult struct {
	Token       string
	PrincipalID string
	Role        domain.Role
}

type principal struct {
	id       string
	username string
	hash     string
}

// Login verifies credentials of an admin or an employee and mints a token
func (s *AuthService) Login(ctx context.Context, role domain.Role, input *LoginInput) (*LoginResult, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	username := strings.TrimSpace(input.Username)
	secret := input.Password
	if role == domain.RoleAdmin {
		secret = strings.TrimSpace(secret)
	}
	if username == "" || secret == "" {
		return nil, domain.Invalid("Username and password are required.")
	}

	p, err := s.lookup(ctx, role, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a comparison so unknown usernames cost as much as wrong passwords
			password.Verify(secret, s.fakeHash())
			metrics.Logins.WithLabelValues(string(role), "invalid").Inc()
			log.Debug().Str("role", string(role)).Str("username", username).Msg("login: unknown username")
			return nil, domain.ErrInvalidCredentials
		}
		metrics.Logins.WithLabelValues(string(role), "error").Inc()
		return nil, fmt.Errorf("lookup %s: %w", role, err)
	}

	if !password.Verify(secret, p.hash) {
		metrics.Logins.WithLabelValues(string(role), "invalid").Inc()
		log.Debug().Str("role", string(role)).Str("username", username).Msg("login: wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := jwt.GenerateAccessToken(p.id, p.username, string(role), s.cfg.JWT.Secret, s.cfg.JWT.TokenTTL())
	if err != nil {
		metrics.Logins.WithLabelValues(string(role), "error").Inc()
		return nil, fmt.Errorf("sign token: %w", err)
	}

	metrics.Logins.WithLabelValues(string(role), "success").Inc()
	log.Info().Str("role", string(role)).Str("username", p.username).Msg("logged in")

	return &LoginResult{Token: token, PrincipalID: p.id, Role: role}, nil
}

func (s *AuthService) lookup(ctx context.Context, role domain.Role, username string) (*principal, error) {
	if role == domain.RoleAdmin {
		admin, err := s.adminRepo.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		return &principal{id: strconv.FormatUint(uint64(admin.ID), 10), username: admin.Username, hash: admin.Password}, nil
	}
	employee, err := s.employeeRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return &principal{id: employee.ID, username: employee.Username, hash: employee.Password}, nil
}

func (s *AuthService) fakeHash() string {
	s.dummyOnce.Do(func() {
		h, err := password.Hash("qraksha-timing-equalizer")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

// Authorize verifies a bearer token and returns its claims
func (s *AuthService) Authorize(token string) (*jwt.Claims, error) {
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}
	claims, err := jwt.ValidateAccessToken(token, s.cfg.JWT.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !domain.Role(claims.Role).Valid() {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
