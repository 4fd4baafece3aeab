package utils

import (
	"log"
	"os"
	"time"

	"github.com/dimas0315/AI-Social-Platform/config"
	"github.com/dimas0315/AI-Social-Platform/models"
)

// StartMediaReaper launches a background goroutine that periodically deletes
// expired orphan media files recorded in the database. Files attached to a
// publication never expire; only uploads that were never attached are reaped.
// It is best-effort and logs failures.
func StartMediaReaper(interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			db := config.DB()
			if db == nil {
				continue
			}
			c := config.Get()
			if !c.UploadReaperEnabled {
				continue
			}
			var items []models.MediaFile
			err := db.Where("publication_id IS NULL AND expire_at IS NOT NULL AND expire_at <= ?", time.Now()).
				Limit(100).Find(&items).Error
			if err != nil {
				log.Printf("media reaper query failed: %v", err)
				continue
			}
			for _, it := range items {
				if it.FilePath != "" {
					_ = os.Remove(it.FilePath)
				}
				// Remove row regardless of file deletion outcome
				if err := db.Delete(&models.MediaFile{}, it.ID).Error; err != nil {
					log.Printf("media reaper delete row failed: %v", err)
				}
			}
		}
	}()
}
