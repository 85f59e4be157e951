package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alumninet/backend/internal/database"
	"alumninet/backend/internal/filestorage"
	"alumninet/backend/internal/models"
	"alumninet/backend/internal/search"
	applog "alumninet/backend/pkg/log"
)

// UserProfileResponse is the public view of a user plus a page of their posts.
type UserProfileResponse struct {
	ID               uuid.UUID          `json:"id"`
	Username         string             `json:"username"`
	Name             string             `json:"name"`
	Role             string             `json:"role"`
	Branch           string             `json:"branch"`
	Batch            string             `json:"batch"`
	LinkedinUsername string             `json:"linkedinUsername"`
	Avatar           models.Avatar      `json:"avatar"`
	Karma            int64              `json:"karma"`
	PostKarma        int64              `json:"postKarma"`
	CommentKarma     int64              `json:"commentKarma"`
	TotalComments    int64              `json:"totalComments"`
	Previous         *search.PageMarker `json:"previous,omitempty"`
	Posts            []models.Post      `json:"posts"`
	Next             *search.PageMarker `json:"next,omitempty"`
}

// GetUserProfileHandler returns a user's public profile with a paginated list
// of their posts, newest first. Post bodies come without their comment trees.
func GetUserProfileHandler(c *gin.Context) {
	username := c.Param("username")
	page, limit := GetPaginationParams(c)

	db := database.GetDB()
	var user models.User
	if err := db.Where("LOWER(username) = LOWER(?)", username).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User does not exist."})
		return
	}

	var total int64
	if err := db.Model(&models.Post{}).Where("author_id = ?", user.ID).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load posts."})
		return
	}

	window := search.PaginationWindow(page, limit, int(total))

	var posts []models.Post
	err := db.Where("author_id = ?", user.ID).
		Order("created_at DESC").
		Scopes(PaginateScope(page, limit)).
		Find(&posts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load posts."})
		return
	}

	c.JSON(http.StatusOK, UserProfileResponse{
		ID:               user.ID,
		Username:         user.Username,
		Name:             user.Name,
		Role:             user.Role,
		Branch:           user.Branch,
		Batch:            user.Batch,
		LinkedinUsername: user.LinkedinUsername,
		Avatar:           user.Avatar,
		Karma:            user.Karma(),
		PostKarma:        user.PostKarma,
		CommentKarma:     user.CommentKarma,
		TotalComments:    user.TotalComments,
		Previous:         window.Previous,
		Posts:            posts,
		Next:             window.Next,
	})
}

type UpdateProfilePayload struct {
	Name             *string `json:"name"`
	PhoneNumber      *string `json:"phoneNumber"`
	Role             *string `json:"role"`
	Branch           *string `json:"branch"`
	Batch            *string `json:"batch"`
	LinkedinUsername *string `json:"linkedinUsername"`
}

// UpdateProfileHandler updates the authenticated user's own profile fields.
func UpdateProfileHandler(c *gin.Context) {
	username := c.Param("username")

	var payload UpdateProfilePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload: " + err.Error()})
		return
	}

	db := database.GetDB()
	var user models.User
	if err := db.Where("LOWER(username) = LOWER(?)", username).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User does not exist."})
		return
	}

	authUserID := c.MustGet("userID").(uuid.UUID)
	if authUserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You can only update your own profile."})
		return
	}

	updates := map[string]interface{}{}
	if payload.Name != nil {
		updates["name"] = *payload.Name
	}
	if payload.PhoneNumber != nil {
		updates["phone_number"] = *payload.PhoneNumber
	}
	if payload.Role != nil {
		updates["role"] = *payload.Role
	}
	if payload.Branch != nil {
		updates["branch"] = *payload.Branch
	}
	if payload.Batch != nil {
		updates["batch"] = *payload.Batch
	}
	if payload.LinkedinUsername != nil {
		updates["linkedin_username"] = *payload.LinkedinUsername
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nothing to update."})
		return
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update profile."})
		return
	}

	c.JSON(http.StatusOK, user)
}

const maxAvatarSizeBytes = 5 * 1024 * 1024

var allowedAvatarExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadAvatarHandler replaces the authenticated user's avatar. The previous
// image, if any, is deleted from storage after the new one is live.
func UploadAvatarHandler(c *gin.Context) {
	authUserID := c.MustGet("userID").(uuid.UUID)

	if filestorage.DefaultFileStorageProvider == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "File storage is not configured."})
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Avatar file is required (multipart field 'avatar')."})
		return
	}
	if fileHeader.Size > maxAvatarSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Avatar file must be smaller than 5MB."})
		return
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedAvatarExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unsupported image type."})
		return
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, "id = ?", authUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User does not exist."})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to read uploaded file."})
		return
	}
	defer file.Close()

	objectName := fmt.Sprintf("avatars/%s/%s%s", authUserID, uuid.New().String(), ext)
	contentType := fileHeader.Header.Get("Content-Type")

	publicURL, err := filestorage.DefaultFileStorageProvider.UploadFile(c.Request.Context(), objectName, file, contentType)
	if err != nil {
		applog.L.Error("Avatar upload failed", zap.Error(err), zap.String("userID", authUserID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload avatar."})
		return
	}

	previousImageID := user.Avatar.ImageID

	err = db.Model(&user).Updates(map[string]interface{}{
		"avatar_exists":     true,
		"avatar_image_link": publicURL,
		"avatar_image_id":   objectName,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save avatar."})
		return
	}

	if previousImageID != "" && previousImageID != objectName {
		if err := filestorage.DefaultFileStorageProvider.DeleteFile(c.Request.Context(), previousImageID); err != nil {
			applog.L.Warn("Failed to delete previous avatar object", zap.Error(err), zap.String("objectName", previousImageID))
		}
	}

	c.JSON(http.StatusOK, models.Avatar{Exists: true, ImageLink: publicURL, ImageID: objectName})
}

// DeleteAvatarHandler removes the authenticated user's avatar.
func DeleteAvatarHandler(c *gin.Context) {
	authUserID := c.MustGet("userID").(uuid.UUID)

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, "id = ?", authUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User does not exist."})
		return
	}

	if !user.Avatar.Exists {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No avatar to delete."})
		return
	}

	if user.Avatar.ImageID != "" && filestorage.DefaultFileStorageProvider != nil {
		if err := filestorage.DefaultFileStorageProvider.DeleteFile(c.Request.Context(), user.Avatar.ImageID); err != nil {
			applog.L.Warn("Failed to delete avatar object from storage", zap.Error(err), zap.String("objectName", user.Avatar.ImageID))
		}
	}

	err := db.Model(&user).Updates(map[string]interface{}{
		"avatar_exists":     false,
		"avatar_image_link": "",
		"avatar_image_id":   "",
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to remove avatar."})
		return
	}

	c.JSON(http.StatusOK, models.Avatar{})
}
