package mypage

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DanmmGuide/server/internal/apperr"
	"github.com/DanmmGuide/server/internal/logs"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// GetMyPage GET /api/my_page/:user_id
//
// Always answers 200 with every key present: a user without a profile row
// gets the empty-default structure, never a 404.
func (h *Handler) GetMyPage(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		apperr.Fail(c, http.StatusBadRequest, apperr.InvalidInput, "invalid user id")
		return
	}

	var profile Profile
	err := h.db.First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, Profile{UserID: userID})
		return
	}
	if err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "profile lookup failed")
		logs.LogJSON("ERROR", "Profile lookup failed", map[string]interface{}{
			"error":  err.Error(),
			"route":  c.FullPath(),
			"userID": userID,
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateMyPage PUT /api/my_page/:user_id
func (h *Handler) UpdateMyPage(c *gin.Context) {
	route := c.FullPath()

	userID, ok := parseUserID(c)
	if !ok {
		apperr.Fail(c, http.StatusBadRequest, apperr.InvalidInput, "invalid user id")
		return
	}

	var input struct {
		GuardianName string  `json:"guardian_name"`
		PetName      string  `json:"pet_name"`
		Species      string  `json:"species"`
		Birth        string  `json:"birth"`
		Gender       string  `json:"gender"`
		Neutered     string  `json:"neutered"`
		Weight       string  `json:"weight"`
		ProfileImage *string `json:"profile_image"`
	}
	if err := c.BindJSON(&input); err != nil {
		apperr.Fail(c, http.StatusBadRequest, apperr.InvalidInput, "invalid request body")
		return
	}

	now := time.Now()
	profile := Profile{
		UserID:       userID,
		GuardianName: input.GuardianName,
		PetName:      input.PetName,
		Species:      input.Species,
		Birth:        input.Birth,
		Gender:       input.Gender,
		Neutered:     input.Neutered,
		Weight:       input.Weight,
		ProfileImage: input.ProfileImage,
		UpdatedAt:    &now,
	}

	err := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&profile).Error
	if err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "profile save failed")
		logs.LogJSON("ERROR", "Profile save failed", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}

	apperr.OK(c, http.StatusOK, gin.H{})
}

func parseUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
