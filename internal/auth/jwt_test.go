package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"alumninet/backend/internal/models"
	"alumninet/backend/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET_KEY", "testsecretkeyforjwtauthentication")
	config.Cfg.JWTTokenLifespan = 1 * time.Hour
	if err := InitializeJWT(); err != nil {
		panic("Failed to initialize JWT for testing: " + err.Error())
	}
	exitVal := m.Run()
	os.Unsetenv("JWT_SECRET_KEY")
	os.Exit(exitVal)
}

func TestGenerateToken(t *testing.T) {
	userID := uuid.New()
	user := &models.User{
		ID:       userID,
		Username: "jdoe",
		Email:    "test@example.com",
	}

	tokenString, err := GenerateToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, "alumninet", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(1*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestGenerateToken_UsesConfiguredLifespan(t *testing.T) {
	orig := config.Cfg.JWTTokenLifespan
	config.Cfg.JWTTokenLifespan = 2 * time.Hour
	defer func() { config.Cfg.JWTTokenLifespan = orig }()

	user := &models.User{ID: uuid.New(), Username: "jdoe", Email: "test@example.com"}
	tokenString, err := GenerateToken(user)
	assert.NoError(t, err)

	claims, err := ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestValidateToken_InvalidSignature(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "jdoe", Email: "test@example.com"}
	tokenString, _ := GenerateToken(user)

	originalKey := jwtKey
	jwtKey = []byte("wrongsecretkey")
	defer func() { jwtKey = originalKey }()

	_, err := ValidateToken(tokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "signature is invalid")
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not.a.jwt")
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	user := &models.User{ID: uuid.New(), Username: "jdoe", Email: "test@example.com"}
	tokenString, err := GenerateToken(user)
	assert.NoError(t, err)

	router := gin.New()
	router.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		userID, _ := c.Get("userID")
		c.JSON(http.StatusOK, gin.H{"user_id": userID.(uuid.UUID).String()})
	})

	t.Run("missing header", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token "+tokenString)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid bearer token", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), user.ID.String())
	})
}
