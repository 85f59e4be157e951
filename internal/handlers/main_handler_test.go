package handlers

import (
	"database/sql"
	"log"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alumninet/backend/internal/auth"
	"alumninet/backend/internal/database"
	"alumninet/backend/pkg/config"
)

var mockDB *gorm.DB
var sqlMock sqlmock.Sqlmock

// TestMain sets up the test environment for handlers: a sqlmock-backed GORM
// instance in place of the global DB, and a JWT secret.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error
	var db *sql.DB
	db, sqlMock, err = sqlmock.New()
	if err != nil {
		log.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	dialector := postgres.New(postgres.Config{
		Conn: db,
	})

	mockDB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to open GORM with mock: %v", err)
	}
	database.SetDB(mockDB)

	os.Setenv("JWT_SECRET_KEY", "handler_test_secret_key")
	config.Cfg.JWTTokenLifespan = 1 * time.Hour
	if err := auth.InitializeJWT(); err != nil {
		log.Fatalf("Failed to initialize JWT for handler testing: %v", err)
	}

	exitVal := m.Run()

	os.Unsetenv("JWT_SECRET_KEY")
	os.Exit(exitVal)
}

// getRouterWithAuthenticatedContext returns a Gin engine whose requests carry
// the given user identity, simulating AuthMiddleware.
func getRouterWithAuthenticatedContext(userID uuid.UUID, username string) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("username", username)
		c.Next()
	})
	return r
}
