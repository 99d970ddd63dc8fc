package main

import (
	"github.com/commune-net/commune/config"
	"github.com/commune-net/commune/models"
	"github.com/commune-net/commune/routes"
	"github.com/commune-net/commune/storage"
	"github.com/commune-net/commune/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Profile{},
		&models.Group{},
		&models.Subscription{},
		&models.ThreadEntry{},
	)

	avatars, err := storage.NewDiskStore(cfg.AvatarDir, cfg.AvatarBaseURL)
	if err != nil {
		utils.Sugar.Fatalf("avatar store init failed: %v", err)
	}

	r := routes.SetupRouter(db, avatars)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
