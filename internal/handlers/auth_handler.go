package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"alumninet/backend/internal/auth"
	"alumninet/backend/internal/database"
	"alumninet/backend/internal/models"
)

type SignupPayload struct {
	Username    string `json:"username" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
	Branch      string `json:"branch"`
	Batch       string `json:"batch"`
}

type LoginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is the body returned on successful signup or login.
type AuthResponse struct {
	Token    string        `json:"token"`
	Username string        `json:"username"`
	ID       string        `json:"id"`
	Avatar   models.Avatar `json:"avatar"`
	Karma    int64         `json:"karma"`
}

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// SignupHandler registers a new account.
func SignupHandler(c *gin.Context) {
	var payload SignupPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload: " + err.Error()})
		return
	}

	if len(payload.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password needs to be at least 6 characters long."})
		return
	}
	if len(payload.Username) < 3 || len(payload.Username) > 20 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username character length must be in range of 3-20."})
		return
	}
	if !usernameRe.MatchString(payload.Username) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username is invalid."})
		return
	}

	db := database.GetDB()

	var count int64
	if err := db.Model(&models.User{}).Where("LOWER(username) = LOWER(?)", payload.Username).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to check username availability."})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username '" + payload.Username + "' is already taken. Choose another one."})
		return
	}

	if err := db.Model(&models.User{}).Where("LOWER(email) = LOWER(?)", payload.Email).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to check email availability."})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "An account with that email already exists."})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process password."})
		return
	}

	user := models.User{
		Username:     payload.Username,
		Name:         payload.Name,
		Email:        strings.ToLower(payload.Email),
		PasswordHash: string(hash),
		PhoneNumber:  payload.PhoneNumber,
		Role:         payload.Role,
		Branch:       payload.Branch,
		Batch:        payload.Batch,
	}
	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create account."})
		return
	}

	tokenString, err := auth.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token."})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:    tokenString,
		Username: user.Username,
		ID:       user.ID.String(),
		Avatar:   user.Avatar,
		Karma:    user.Karma(),
	})
}

// LoginHandler authenticates an existing account by username and password.
func LoginHandler(c *gin.Context) {
	var payload LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload: " + err.Error()})
		return
	}

	db := database.GetDB()
	var user models.User
	if err := db.Where("LOWER(username) = LOWER(?)", payload.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No account with that username has been registered."})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password."})
		return
	}

	tokenString, err := auth.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token."})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:    tokenString,
		Username: user.Username,
		ID:       user.ID.String(),
		Avatar:   user.Avatar,
		Karma:    user.Karma(),
	})
}
