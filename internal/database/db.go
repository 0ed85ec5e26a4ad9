package database

import (
	"context"

	"github.com/WandevPB/brisagenda-backend/internal/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.Appointment{},
		&model.BlockedWindow{},
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to auto-migrate models")
	}

	return db, nil
}

// EnsureAdmin seeds the initial admin account when no users exist, so the
// system is reachable before any accounts have been provisioned. The
// seeded account must change its password on first login.
func EnsureAdmin(ctx context.Context, db *gorm.DB, username, password string) error {
	var total int64
	if err := db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Username:           username,
		Password:           string(hash),
		Role:               model.RoleAdmin,
		CentroDistribuicao: model.CenterAll,
		MustChangePassword: true,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return err
	}

	log.Info().Str("username", username).Msg("seeded initial admin account")
	return nil
}
