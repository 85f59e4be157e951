package handlers

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"alumninet/backend/pkg/config"
)

func passwordResetRouter() *gin.Engine {
	r := gin.New()
	r.POST("/api/forgot-pwd", ForgotPasswordHandler)
	r.POST("/api/reset-pwd", ResetPasswordHandler)
	return r
}

func TestForgotPasswordHandler(t *testing.T) {
	config.Cfg.ResetTokenTTL = 10 * time.Minute
	config.Cfg.ResetTokenValidationGrace = 60 * time.Second
	r := passwordResetRouter()

	t.Run("invalid payload", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/api/forgot-pwd", gin.H{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		sqlMock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE LOWER(email) = LOWER($1)`)).
			WithArgs("ghost@example.com", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		w := performRequest(r, http.MethodPost, "/api/forgot-pwd", gin.H{"email": "ghost@example.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "No account with that email")
	})
}

func TestResetPasswordHandler(t *testing.T) {
	config.Cfg.ResetTokenTTL = 10 * time.Minute
	config.Cfg.ResetTokenValidationGrace = 60 * time.Second
	r := passwordResetRouter()

	t.Run("password too short", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/api/reset-pwd", gin.H{"token": "cafebabe", "password": "12345"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "at least 6 characters")
	})

	t.Run("unknown token", func(t *testing.T) {
		sqlMock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE reset_token = $1`)).
			WithArgs("cafebabe", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		w := performRequest(r, http.MethodPost, "/api/reset-pwd", gin.H{"token": "cafebabe", "password": "newpassword"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid password reset token")
	})

	t.Run("missing token", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/api/reset-pwd", gin.H{"password": "newpassword"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
