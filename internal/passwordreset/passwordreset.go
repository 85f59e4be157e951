// Package passwordreset implements the reset-token lifecycle: issuance with a
// uniqueness check, emailing the reset link, and single-use consumption.
package passwordreset

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"alumninet/backend/internal/models"
	"alumninet/backend/internal/notifications"
	"alumninet/backend/pkg/config"
	applog "alumninet/backend/pkg/log"
)

var (
	// ErrAccountNotFound means no account exists for the given email.
	ErrAccountNotFound = errors.New("no account with that email exists")
	// ErrInvalidToken means the token is unknown or was already consumed.
	ErrInvalidToken = errors.New("password reset token is invalid")
	// ErrExpiredToken means the token existed but its validity window has passed.
	ErrExpiredToken = errors.New("password reset token has expired")
	// ErrEmailSendFailed means the token was issued but the email could not be sent.
	ErrEmailSendFailed = errors.New("failed to send password reset email")
	// ErrTokenGenerationExhausted means no unique token could be generated.
	ErrTokenGenerationExhausted = errors.New("could not generate a unique reset token")
)

// maxTokenAttempts bounds the uniqueness retry loop. Collisions on 20 random
// bytes are effectively impossible, so more than one iteration indicates a
// broken entropy source rather than bad luck.
const maxTokenAttempts = 5

const tokenByteLength = 20

// Test seams.
var (
	randRead = rand.Read
	timeNow  = time.Now
)

// generateToken produces a hex-encoded random token.
func generateToken() (string, error) {
	buf := make([]byte, tokenByteLength)
	if _, err := randRead(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// RequestReset issues a reset token for the account registered under email and
// sends the reset link. Issuing a new token replaces any outstanding one for
// the same account. Returns ErrAccountNotFound, ErrTokenGenerationExhausted or
// ErrEmailSendFailed.
func RequestReset(ctx context.Context, db *gorm.DB, email string) error {
	log := applog.L.Named("passwordreset")

	var user models.User
	if err := db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("looking up account: %w", err)
	}

	token, err := uniqueToken(ctx, db)
	if err != nil {
		return err
	}

	expiresAt := timeNow().Add(config.Cfg.ResetTokenTTL).UnixMilli()
	err = db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"reset_token":            token,
		"reset_token_expires_at": expiresAt,
	}).Error
	if err != nil {
		return fmt.Errorf("storing reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", config.Cfg.FrontendBaseURL, token)
	minutes := int(config.Cfg.ResetTokenTTL.Minutes())
	subject := "Reset your AlumniNet password"
	bodyText := fmt.Sprintf(
		"You requested a password reset for your AlumniNet account.\n\n"+
			"Open the link below to choose a new password. The link is valid for %d minutes:\n\n%s\n\n"+
			"If you did not request this, you can safely ignore this email.",
		minutes, resetURL)
	bodyHTML := fmt.Sprintf(
		"<p>You requested a password reset for your AlumniNet account.</p>"+
			"<p>Click the link below to choose a new password. The link is valid for %d minutes:</p>"+
			"<p><a href=%q>%s</a></p>"+
			"<p>If you did not request this, you can safely ignore this email.</p>",
		minutes, resetURL, resetURL)

	if err := notifications.SendEmailNotification(ctx, user.Email, subject, bodyHTML, bodyText); err != nil {
		log.Error("Reset email delivery failed", zap.Error(err), zap.String("email", user.Email))
		return ErrEmailSendFailed
	}

	log.Info("Password reset token issued", zap.String("userID", user.ID.String()))
	return nil
}

// uniqueToken generates a token that no other account currently holds,
// retrying a bounded number of times on collision.
func uniqueToken(ctx context.Context, db *gorm.DB) (string, error) {
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := generateToken()
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.WithContext(ctx).Model(&models.User{}).Where("reset_token = ?", token).Count(&count).Error; err != nil {
			return "", fmt.Errorf("checking token uniqueness: %w", err)
		}
		if count == 0 {
			return token, nil
		}
	}
	return "", ErrTokenGenerationExhausted
}

// ValidateAndConsume checks the token, and if it is alive sets the account's
// password to newPassword and clears the token in a single guarded update so
// that the token can never be consumed twice. An expired token is also
// cleared. Returns ErrInvalidToken or ErrExpiredToken.
func ValidateAndConsume(ctx context.Context, db *gorm.DB, token, newPassword string) error {
	log := applog.L.Named("passwordreset")

	var user models.User
	if err := db.WithContext(ctx).Where("reset_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("looking up reset token: %w", err)
	}

	// Tokens stay acceptable slightly past their advertised expiry so a user
	// who loaded the form just in time is not rejected mid-submit.
	deadline := user.ResetTokenExpiresAt + config.Cfg.ResetTokenValidationGrace.Milliseconds()
	if timeNow().UnixMilli() >= deadline {
		err := db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
			"reset_token":            "",
			"reset_token_expires_at": 0,
		}).Error
		if err != nil {
			return fmt.Errorf("clearing expired reset token: %w", err)
		}
		return ErrExpiredToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing new password: %w", err)
	}

	// The reset_token guard makes consumption atomic: a concurrent reset with
	// the same token sees zero rows and fails with ErrInvalidToken.
	res := db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND reset_token = ?", user.ID, token).
		Updates(map[string]interface{}{
			"password_hash":          string(hash),
			"reset_token":            "",
			"reset_token_expires_at": 0,
		})
	if res.Error != nil {
		return fmt.Errorf("consuming reset token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInvalidToken
	}

	log.Info("Password reset completed", zap.String("userID", user.ID.String()))
	return nil
}
