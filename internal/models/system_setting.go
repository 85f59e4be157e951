package models

import (
	"alumninet/backend/internal/utils"

	"gorm.io/gorm"
)

// SystemSetting stores global settings in the database so they can be changed
// from the admin UI without redeploying (e.g. FRONTEND_BASE_URL,
// GOOGLE_CSE_API_KEY, SEARCH_INSTITUTION_KEYWORD).
type SystemSetting struct {
	gorm.Model
	Key         string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Value       string `gorm:"type:text;not null"` // encrypted at rest when IsEncrypted
	Description string `gorm:"type:varchar(255)"`
	IsEncrypted bool   `gorm:"default:true"`
	ExposedToUI bool   `gorm:"default:true"`
}

// BeforeSave encrypts the value before it hits the database.
func (s *SystemSetting) BeforeSave(tx *gorm.DB) (err error) {
	if s.IsEncrypted && s.Value != "" {
		encryptedValue, err := utils.Encrypt(s.Value)
		if err != nil {
			return err
		}
		s.Value = encryptedValue
	}
	return nil
}

// GetDecryptedValue returns the plaintext value of the setting.
func (s *SystemSetting) GetDecryptedValue() (string, error) {
	if !s.IsEncrypted || s.Value == "" {
		return s.Value, nil
	}
	return utils.Decrypt(s.Value)
}

// GetSystemSetting looks up a setting by key and returns its decrypted value.
func GetSystemSetting(db *gorm.DB, key string) (string, error) {
	var setting SystemSetting
	if err := db.Where("key = ?", key).First(&setting).Error; err != nil {
		return "", err
	}
	return setting.GetDecryptedValue()
}
