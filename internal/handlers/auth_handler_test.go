package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func performRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignupHandler_Validation(t *testing.T) {
	r := gin.New()
	r.POST("/api/signup", SignupHandler)

	t.Run("password too short", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/api/signup", gin.H{
			"username": "jdoe", "name": "Jane Doe", "email": "jane@example.com", "password": "12345",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "at least 6 characters")
	})

	t.Run("username too short", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/api/signup", gin.H{
			"username": "jd", "name": "Jane Doe", "email": "jane@example.com", "password": "password123",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "range of 3-20")
	})

	t.Run("username too long", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/api/signup", gin.H{
			"username": "this_username_is_way_too_long", "name": "Jane Doe", "email": "jane@example.com", "password": "password123",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "range of 3-20")
	})

	t.Run("missing email", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/api/signup", gin.H{
			"username": "jdoe", "name": "Jane Doe", "password": "password123",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSignupHandler_UsernameTaken(t *testing.T) {
	r := gin.New()
	r.POST("/api/signup", SignupHandler)

	sqlMock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE LOWER(username) = LOWER($1)`)).
		WithArgs("jdoe").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	w := performRequest(r, http.MethodPost, "/api/signup", gin.H{
		"username": "jdoe", "name": "Jane Doe", "email": "jane@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already taken")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestLoginHandler(t *testing.T) {
	r := gin.New()
	r.POST("/api/login", LoginHandler)

	userID := uuid.New()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)

	loginRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "username", "name", "email", "password_hash", "post_karma", "comment_karma", "avatar_exists", "avatar_image_link", "avatar_image_id"}).
			AddRow(userID, "jdoe", "Jane Doe", "jane@example.com", string(hash), int64(7), int64(3), true, "https://cdn.example.com/a.png", "avatars/a.png")
	}

	t.Run("unknown username", func(t *testing.T) {
		sqlMock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE LOWER(username) = LOWER($1)`)).
			WithArgs("ghost", 1).
			WillReturnError(assert.AnError)

		w := performRequest(r, http.MethodPost, "/api/login", gin.H{"username": "ghost", "password": "whatever"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "No account with that username")
	})

	t.Run("wrong password", func(t *testing.T) {
		sqlMock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE LOWER(username) = LOWER($1)`)).
			WithArgs("jdoe", 1).
			WillReturnRows(loginRows())

		w := performRequest(r, http.MethodPost, "/api/login", gin.H{"username": "jdoe", "password": "wrongpass"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		sqlMock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE LOWER(username) = LOWER($1)`)).
			WithArgs("JDoe", 1).
			WillReturnRows(loginRows())

		w := performRequest(r, http.MethodPost, "/api/login", gin.H{"username": "JDoe", "password": "password123"})
		assert.Equal(t, http.StatusOK, w.Code)

		var resp AuthResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "jdoe", resp.Username)
		assert.Equal(t, userID.String(), resp.ID)
		assert.Equal(t, int64(10), resp.Karma)
		assert.True(t, resp.Avatar.Exists)
	})
}
