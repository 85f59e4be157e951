package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"alumninet/backend/internal/database"
	"alumninet/backend/internal/passwordreset"
	applog "alumninet/backend/pkg/log"
)

type ForgotPasswordPayload struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordPayload struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordHandler issues a reset token and emails the reset link.
func ForgotPasswordHandler(c *gin.Context) {
	var payload ForgotPasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload: " + err.Error()})
		return
	}

	err := passwordreset.RequestReset(c.Request.Context(), database.GetDB(), payload.Email)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Password reset link has been sent to your email."})
	case errors.Is(err, passwordreset.ErrAccountNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"message": "No account with that email has been registered."})
	case errors.Is(err, passwordreset.ErrEmailSendFailed):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to send the password reset email. Please try again later."})
	default:
		applog.L.Error("Password reset request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong. Please try again later."})
	}
}

// ResetPasswordHandler consumes a reset token and sets the new password.
func ResetPasswordHandler(c *gin.Context) {
	var payload ResetPasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload: " + err.Error()})
		return
	}

	if len(payload.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password needs to be at least 6 characters long."})
		return
	}

	err := passwordreset.ValidateAndConsume(c.Request.Context(), database.GetDB(), payload.Token, payload.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Password has been reset. You can now log in with your new password."})
	case errors.Is(err, passwordreset.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid password reset token."})
	case errors.Is(err, passwordreset.ErrExpiredToken):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password reset token has expired. Please request a new one."})
	default:
		applog.L.Error("Password reset failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong. Please try again later."})
	}
}
