package database

import (
	"github.com/MForbesPrim/primith-portal/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Init(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.PasswordResetToken{},
		&models.InvitationToken{},
		&models.Organization{},
		&models.Role{},
		&models.Service{},
		&models.OrganizationService{},
		&models.Project{},
		&models.Folder{},
		&models.Document{},
		&models.Page{},
		&models.PageImage{},
		&models.Notification{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
