package database

import (
	"github.com/yeremiapane/buffet-app/models"
	"github.com/yeremiapane/buffet-app/utils"
	"gorm.io/gorm"
)

// AllModels lists every persisted model in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&models.Table{},
		&models.Employee{},
		&models.BuffetType{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Bill{},
		&models.Payment{},
		&models.Event{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
