package user

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/DanmmGuide/server/internal/apperr"
	"github.com/DanmmGuide/server/internal/logs"
)

type Handler struct {
	db        *gorm.DB
	jwtSecret []byte
}

func NewHandler(db *gorm.DB, jwtSecret string) *Handler {
	return &Handler{db: db, jwtSecret: []byte(jwtSecret)}
}

type credentialsInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func bindCredentials(c *gin.Context) (string, string, bool) {
	var input credentialsInput
	if err := c.BindJSON(&input); err != nil {
		apperr.Fail(c, http.StatusBadRequest, apperr.InvalidInput, "invalid request body")
		return "", "", false
	}
	username := strings.TrimSpace(input.Username)
	password := strings.TrimSpace(input.Password)
	if username == "" || password == "" {
		apperr.Fail(c, http.StatusBadRequest, apperr.InvalidInput, "username and password are required")
		return "", "", false
	}
	return username, password, true
}

// Register POST /api/users/register
func (h *Handler) Register(c *gin.Context) {
	route := c.FullPath()

	username, password, ok := bindCredentials(c)
	if !ok {
		return
	}

	exists, err := ExistsByUsername(h.db, username)
	if err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "database error")
		logs.LogJSON("ERROR", "Database error", map[string]interface{}{
			"error": err.Error(),
			"route": route,
		})
		return
	}
	if exists {
		apperr.Fail(c, http.StatusConflict, apperr.Conflict, "username already taken")
		logs.LogJSON("WARN", "Duplicate username", map[string]interface{}{
			"route":    route,
			"username": username,
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "password hashing failed")
		logs.LogJSON("ERROR", "Password hashing failed", map[string]interface{}{
			"error": err.Error(),
			"route": route,
		})
		return
	}

	newUser := User{
		Username:  username,
		Password:  string(hash),
		CreatedAt: time.Now(),
	}
	if err := h.db.Create(&newUser).Error; err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "user creation failed")
		logs.LogJSON("ERROR", "User creation failed", map[string]interface{}{
			"error": err.Error(),
			"route": route,
		})
		return
	}

	apperr.OK(c, http.StatusCreated, gin.H{
		"user": gin.H{"id": newUser.ID, "username": newUser.Username},
	})
	logs.LogJSON("INFO", "User registered", map[string]interface{}{
		"route":  route,
		"userID": newUser.ID,
	})
}

// Login POST /api/users/login
func (h *Handler) Login(c *gin.Context) {
	route := c.FullPath()

	username, password, ok := bindCredentials(c)
	if !ok {
		return
	}

	u, err := ValidateCredentials(h.db, username, password)
	if err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "database error")
		logs.LogJSON("ERROR", "Database error", map[string]interface{}{
			"error": err.Error(),
			"route": route,
		})
		return
	}
	if u == nil {
		apperr.Fail(c, http.StatusUnauthorized, apperr.Unauthorized, "invalid username or password")
		logs.LogJSON("WARN", "Login failed", map[string]interface{}{
			"route":    route,
			"username": username,
		})
		return
	}

	token, err := h.signToken(u.ID)
	if err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "token signing failed")
		logs.LogJSON("ERROR", "Token signing failed", map[string]interface{}{
			"error": err.Error(),
			"route": route,
		})
		return
	}

	apperr.OK(c, http.StatusOK, gin.H{
		"user":  gin.H{"id": u.ID, "username": u.Username},
		"token": token,
	})
}

// CheckUsername GET /api/users/check?username=
func (h *Handler) CheckUsername(c *gin.Context) {
	username := strings.TrimSpace(c.Query("username"))
	if username == "" {
		apperr.Fail(c, http.StatusBadRequest, apperr.InvalidInput, "username parameter is required")
		return
	}

	exists, err := ExistsByUsername(h.db, username)
	if err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "database error")
		logs.LogJSON("ERROR", "Database error", map[string]interface{}{
			"error": err.Error(),
			"route": c.FullPath(),
		})
		return
	}

	apperr.OK(c, http.StatusOK, gin.H{"exists": exists})
}

// Delete POST /api/users/delete
//
// Validates the credentials, then deletes the account. The foreign keys take
// the user's posts, comments, likes and profile down with it, including the
// dependents of the deleted posts.
func (h *Handler) Delete(c *gin.Context) {
	route := c.FullPath()

	username, password, ok := bindCredentials(c)
	if !ok {
		return
	}

	u, err := ValidateCredentials(h.db, username, password)
	if err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "database error")
		logs.LogJSON("ERROR", "Database error", map[string]interface{}{
			"error": err.Error(),
			"route": route,
		})
		return
	}
	if u == nil {
		apperr.Fail(c, http.StatusUnauthorized, apperr.Unauthorized, "invalid username or password")
		logs.LogJSON("WARN", "Account deletion refused", map[string]interface{}{
			"route":    route,
			"username": username,
		})
		return
	}

	if err := h.db.Delete(&User{}, u.ID).Error; err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "user deletion failed")
		logs.LogJSON("ERROR", "User deletion failed", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": u.ID,
		})
		return
	}

	apperr.OK(c, http.StatusOK, gin.H{})
	logs.LogJSON("INFO", "User deleted", map[string]interface{}{
		"route":  route,
		"userID": u.ID,
	})
}

func (h *Handler) signToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}
