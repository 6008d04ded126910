package config

import (
	"context"
	"fmt"

	"qraksha/internal/adapters/persistence/models"
	"qraksha/internal/adapters/persistence/repositories"
	"qraksha/internal/pkg/password"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	admins repositories.AdminRepository
	seed   SeedConfig
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, seed SeedConfig) *Seeder {
	return &Seeder{admins: repositories.NewAdminRepository(db), seed: seed}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	log.Info().Msg("running database seeders")

	if err := s.seedAdmin(ctx); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

// seedAdmin creates the bootstrap admin when the admins table is empty.
// There is no admin self-registration, so this is the only way in.
func (s *Seeder) seedAdmin(ctx context.Context) error {
	count, err := s.admins.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if s.seed.AdminUsername == "" || s.seed.AdminPassword == "" {
		log.Warn().Msg("no admin exists and ADMIN_USERNAME/ADMIN_PASSWORD are unset; admin login is impossible")
		return nil
	}

	hashedPassword, err := password.Hash(s.seed.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.Admin{
		Username: s.seed.AdminUsername,
		Password: hashedPassword,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return err
	}

	log.Info().Str("username", admin.Username).Msg("admin user created")
	return nil
}
