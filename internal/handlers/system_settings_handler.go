package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"alumninet/backend/internal/database"
	"alumninet/backend/internal/lookup"
	"alumninet/backend/internal/models"
	"alumninet/backend/internal/notifications"
	applog "alumninet/backend/pkg/log"
)

// SystemSettingResponse carries a setting to the admin UI. The value is
// always the decrypted one; the encrypted form never leaves the database.
type SystemSettingResponse struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
	IsEncrypted bool   `json:"isEncrypted"`
}

// ListSystemSettingsHandler lists the settings editable from the admin UI.
func ListSystemSettingsHandler(c *gin.Context) {
	log := applog.L.Named("ListSystemSettingsHandler")
	db := database.GetDB()

	var settings []models.SystemSetting
	if err := db.Where("exposed_to_ui = ?", true).Order("key").Find(&settings).Error; err != nil {
		log.Error("Failed to retrieve system settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve system settings."})
		return
	}

	response := make([]SystemSettingResponse, len(settings))
	for i, s := range settings {
		decryptedValue, err := s.GetDecryptedValue()
		if err != nil {
			log.Error("Failed to decrypt setting value", zap.String("key", s.Key), zap.Error(err))
			decryptedValue = "******"
		}
		response[i] = SystemSettingResponse{
			Key:         s.Key,
			Value:       decryptedValue,
			Description: s.Description,
			IsEncrypted: s.IsEncrypted,
		}
	}

	c.JSON(http.StatusOK, response)
}

type UpdateSystemSettingsPayload struct {
	Settings []struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value"`
	} `json:"settings" binding:"required,dive"`
}

// UpdateSystemSettingsHandler updates one or more settings in a single
// transaction, then re-initializes the services that read them so the new
// values take effect without a restart.
func UpdateSystemSettingsHandler(c *gin.Context) {
	log := applog.L.Named("UpdateSystemSettingsHandler")
	db := database.GetDB()

	var payload UpdateSystemSettingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload: " + err.Error()})
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		log.Error("Failed to begin transaction", zap.Error(tx.Error))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to start database transaction."})
		return
	}

	for _, settingUpdate := range payload.Settings {
		var setting models.SystemSetting
		if err := tx.Where("key = ? AND exposed_to_ui = ?", settingUpdate.Key, true).First(&setting).Error; err != nil {
			tx.Rollback()
			log.Warn("Attempted to update non-existent or non-UI-exposed setting", zap.String("key", settingUpdate.Key))
			c.JSON(http.StatusNotFound, gin.H{"message": "Setting not found or not updatable: " + settingUpdate.Key})
			return
		}

		// BeforeSave encrypts the value when the setting is marked encrypted.
		setting.Value = settingUpdate.Value
		if err := tx.Save(&setting).Error; err != nil {
			tx.Rollback()
			log.Error("Failed to save setting", zap.String("key", setting.Key), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update setting: " + setting.Key})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to commit updates."})
		return
	}

	notifications.InitEmailService()
	lookup.InitLookup()

	c.JSON(http.StatusOK, gin.H{"message": "System settings updated successfully."})
}

// SendTestEmailHandler sends a test email to the authenticated user so admins
// can verify freshly saved SES settings.
func SendTestEmailHandler(c *gin.Context) {
	log := applog.L.Named("SendTestEmailHandler")

	username := c.MustGet("username").(string)
	db := database.GetDB()
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to resolve the authenticated user."})
		return
	}

	subject := "AlumniNet - Test Email"
	bodyHTML := "<h1>Success!</h1><p>This is a test email from your AlumniNet instance.</p><p>Your email settings are configured correctly.</p>"
	bodyText := "Success! This is a test email from your AlumniNet instance. Your email settings are configured correctly."

	// Pick up settings the admin may have just saved.
	notifications.InitEmailService()

	if notifications.DefaultEmailNotifier == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email service is not configured."})
		return
	}

	if err := notifications.SendEmailNotification(c.Request.Context(), user.Email, subject, bodyHTML, bodyText); err != nil {
		log.Error("Failed to send test email", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send test email: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Test email sent successfully to " + user.Email})
}
