package seeders

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"alumninet/backend/internal/models"
	applog "alumninet/backend/pkg/log"
)

// RunMigrations runs GORM auto-migration for every model. The SQL migration
// files are the source of truth for production schemas; this keeps local
// development databases in sync without the migrate CLI.
func RunMigrations(db *gorm.DB) error {
	log := applog.L.Named("RunMigrations")
	log.Info("Auto-migrating database schema...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.PostVote{},
		&models.CommentVote{},
		&models.SystemSetting{},
	)
	if err != nil {
		log.Error("GORM AutoMigrate failed", zap.Error(err))
		return err
	}

	log.Info("Database schema migration completed successfully.")
	return nil
}

// SeedInitialData populates the database with essential defaults. Each seeder
// checks for existing rows before inserting, so re-running is safe.
func SeedInitialData(db *gorm.DB) error {
	log := applog.L.Named("SeedInitialData")
	log.Info("Seeding initial data...")

	if err := seedSystemSettings(db); err != nil {
		log.Error("Failed to seed system settings", zap.Error(err))
		return err
	}

	log.Info("Initial data seeding completed successfully.")
	return nil
}

func seedSystemSettings(db *gorm.DB) error {
	settings := []models.SystemSetting{
		{
			Key:         "AWS_REGION",
			Value:       "",
			Description: "AWS region used for SES email delivery (e.g. us-east-1).",
			IsEncrypted: false,
			ExposedToUI: true,
		},
		{
			Key:         "AWS_SES_EMAIL_SENDER",
			Value:       "",
			Description: "Verified SES sender address for outbound email.",
			IsEncrypted: false,
			ExposedToUI: true,
		},
		{
			Key:         "GOOGLE_CSE_API_KEY",
			Value:       "",
			Description: "API key for the Google Custom Search engine behind people search.",
			IsEncrypted: true,
			ExposedToUI: true,
		},
		{
			Key:         "GOOGLE_CSE_ENGINE_ID",
			Value:       "",
			Description: "Google Custom Search engine ID.",
			IsEncrypted: false,
			ExposedToUI: true,
		},
	}

	for _, setting := range settings {
		var existing models.SystemSetting
		if err := db.Where("key = ?", setting.Key).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&setting).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// FullSetup runs migrations and seeding in one call, for the setup CLI.
func FullSetup(db *gorm.DB) error {
	if err := RunMigrations(db); err != nil {
		return err
	}
	return SeedInitialData(db)
}
