package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DanmmGuide/server/internal/apperr"
	"github.com/DanmmGuide/server/internal/logs"
	"github.com/DanmmGuide/server/internal/user"
)

// AdminOnlyMiddleware restricts a route to administrator accounts. Must run
// after AuthMiddleware.
func AdminOnlyMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		userIDStr := c.GetString("user_id")

		userID, err := strconv.ParseUint(userIDStr, 10, 64)
		if userIDStr == "" || err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "code": apperr.Unauthorized, "error": "authentication required"})
			logs.LogJSON("WARN", "Unauthenticated user tried admin route", map[string]interface{}{
				"route": route,
			})
			return
		}

		isAdmin, err := user.IsAdmin(db, uint(userID))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "code": apperr.Fatal, "error": "admin check failed"})
			logs.LogJSON("ERROR", "Admin check failed", map[string]interface{}{
				"error":  err.Error(),
				"route":  route,
				"userID": userIDStr,
			})
			return
		}

		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "code": apperr.Forbidden, "error": "admin access required"})
			logs.LogJSON("WARN", "Non-admin user blocked from admin route", map[string]interface{}{
				"route":  route,
				"userID": userIDStr,
			})
			return
		}

		c.Next()
	}
}
