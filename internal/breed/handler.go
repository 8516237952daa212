package breed

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DanmmGuide/server/internal/apperr"
	"github.com/DanmmGuide/server/internal/logs"
)

type Handler struct {
	db     *gorm.DB
	syncer *Syncer
}

func NewHandler(db *gorm.DB, syncer *Syncer) *Handler {
	return &Handler{db: db, syncer: syncer}
}

// ListBreeds GET /api/breeds
func (h *Handler) ListBreeds(c *gin.Context) {
	var breeds []DogBreed
	if err := h.db.Order("id ASC").Find(&breeds).Error; err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "breed listing failed")
		logs.LogJSON("ERROR", "Breed listing failed", map[string]interface{}{
			"error": err.Error(),
			"route": c.FullPath(),
		})
		return
	}

	apperr.OK(c, http.StatusOK, gin.H{"count": len(breeds), "breeds": breeds})
}

// GetBreed GET /api/breeds/:id
func (h *Handler) GetBreed(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apperr.Fail(c, http.StatusNotFound, apperr.NotFound, "breed not found")
		return
	}

	var b DogBreed
	if err := h.db.First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Fail(c, http.StatusNotFound, apperr.NotFound, "breed not found")
			return
		}
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "breed lookup failed")
		logs.LogJSON("ERROR", "Breed lookup failed", map[string]interface{}{
			"error":   err.Error(),
			"route":   c.FullPath(),
			"breedID": id,
		})
		return
	}

	apperr.OK(c, http.StatusOK, gin.H{"breed": b})
}

// SyncBreeds POST /api/admin/sync_breeds
func (h *Handler) SyncBreeds(c *gin.Context) {
	route := c.FullPath()

	saved, err := h.syncer.Sync()
	if err != nil {
		var ue *UpstreamError
		if errors.As(err, &ue) {
			apperr.Fail(c, http.StatusBadGateway, ue.Code, ue.Msg)
			logs.LogJSON("ERROR", "Breed sync upstream failure", map[string]interface{}{
				"error":  err.Error(),
				"route":  route,
				"code":   ue.Code,
				"status": ue.Status,
			})
			return
		}
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "breed sync failed")
		logs.LogJSON("ERROR", "Breed sync failed", map[string]interface{}{
			"error": err.Error(),
			"route": route,
		})
		return
	}

	apperr.OK(c, http.StatusOK, gin.H{"saved": saved})
	logs.LogJSON("INFO", "Breed catalog synced", map[string]interface{}{
		"route": route,
		"saved": saved,
	})
}
