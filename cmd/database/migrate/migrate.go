package migration

import (
	"Markit-Pantry/entities"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Errorf("Error migrating user database: %v", err)
		return err
	}

	if err := db.AutoMigrate(&entities.PantryItem{}); err != nil {
		log.Errorf("Error migrating pantry item database: %v", err)
		return err
	}

	log.Info("Database migration complete")
	return nil
}
