package main

import (
	"time"

	"github.com/dimas0315/AI-Social-Platform/config"
	"github.com/dimas0315/AI-Social-Platform/models"
	"github.com/dimas0315/AI-Social-Platform/routes"
	"github.com/dimas0315/AI-Social-Platform/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Publication{},
		&models.Comment{},
		&models.Like{},
		&models.Share{},
		&models.Topic{},
		&models.Friendship{},
		&models.Notification{},
		&models.MediaFile{},
		&models.UserActivity{},
	)

	r := routes.SetupRouter(db)

	// Start background reaper for expired orphan uploads (best-effort)
	utils.StartMediaReaper(time.Duration(cfg.UploadReaperInterval) * time.Minute)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
