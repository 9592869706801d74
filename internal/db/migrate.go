package db

import (
	"syncial/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Poll{},
		&models.Post{},
		&models.Comment{},
		&models.Reputation{},
		&models.Category{},
		&models.SyncState{},
	)
}
