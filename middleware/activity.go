package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dimas0315/AI-Social-Platform/models"
)

// ActivityRecorder bumps the per-user daily request counter after each
// successful authenticated request. The counters feed the daily active
// users figure in the stats endpoint.
func ActivityRecorder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 400 {
			return
		}

		raw, exists := c.Get(ContextUserIDKey)
		if !exists {
			return
		}
		var userID uint
		switch v := raw.(type) {
		case uint:
			userID = v
		case int:
			userID = uint(v)
		case float64:
			userID = uint(v)
		default:
			return
		}
		if userID == 0 {
			return
		}

		// Use local midnight to align with DATE column
		now := time.Now().In(time.Local)
		localMidnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		// Atomic upsert to avoid duplicate key errors under concurrency
		_ = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"requests": gorm.Expr("requests + 1"), "updated_at": time.Now()}),
		}).Create(&models.UserActivity{UserID: userID, Date: localMidnight, Requests: 1}).Error
	}
}
