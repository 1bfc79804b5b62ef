package database

import (
	"github.com/crewhub/accounts/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Team{},
		&model.Membership{},
		&model.AuthEvent{},
	)
}
