package main

import (
	"fmt"

	"go.uber.org/zap"

	"alumninet/backend/internal/auth"
	"alumninet/backend/internal/database"
	"alumninet/backend/internal/filestorage"
	"alumninet/backend/internal/lookup"
	"alumninet/backend/internal/notifications"
	"alumninet/backend/internal/router"
	"alumninet/backend/internal/seeders"
	"alumninet/backend/pkg/config"
	applog "alumninet/backend/pkg/log"
)

func main() {
	defer applog.Sync()
	log := applog.L

	if err := auth.InitializeJWT(); err != nil {
		log.Fatal("Failed to initialize JWT", zap.Error(err))
	}

	sslMode := "disable"
	if config.Cfg.EnableDBSSL {
		sslMode = "require"
	}
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		config.Cfg.DBHost, config.Cfg.DBPort, config.Cfg.DBUser, config.Cfg.DBPassword, config.Cfg.DBName, sslMode)

	if err := database.ConnectDB(dsn); err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connection established.")

	if err := database.MigrateDB(); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	db := database.GetDB()
	if err := seeders.SeedInitialData(db); err != nil {
		log.Fatal("Failed to seed initial data", zap.Error(err))
	}

	notifications.InitEmailService()
	if err := filestorage.InitFileStorage(); err != nil {
		log.Warn("File storage not available, avatar uploads are disabled", zap.Error(err))
	}
	lookup.InitLookup()

	r := router.SetupRouter(log)

	addr := ":" + config.Cfg.Port
	log.Info("Starting server", zap.String("addr", addr), zap.String("environment", config.Cfg.Environment))
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
