package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/commune-net/commune/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Group{},
		&models.Subscription{},
		&models.ThreadEntry{},
	))
	return db
}

func seedProfile(t *testing.T, db *gorm.DB, id, username string) models.Profile {
	t.Helper()
	profile := models.Profile{ID: id, Username: username, UpdatedAt: time.Now()}
	require.NoError(t, db.Create(&profile).Error)
	return profile
}

func asIdentity(p models.Profile) Identity {
	return Identity{UserID: p.ID, Username: p.Username}
}
