package services

import (
	"errors"

	"github.com/yeremiapane/buffet-app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// reserveTable flips a table from AVAILABLE to RESERVED in a single
// conditional update. Of two concurrent callers exactly one sees a row
// affected; the other gets TABLE_UNAVAILABLE.
func reserveTable(tx *gorm.DB, tableID uint) error {
	res := tx.Model(&models.Table{}).
		Where("id = ? AND status = ?", tableID, models.TableStatusAvailable).
		Update("status", models.TableStatusReserved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := tx.Model(&models.Table{}).Where("id = ?", tableID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return newError(KindNotFound, "table %d not found", tableID)
	}
	return newError(KindTableUnavailable, "table %d is not available", tableID)
}

func releaseTable(tx *gorm.DB, tableID uint) error {
	return tx.Model(&models.Table{}).
		Where("id = ?", tableID).
		Update("status", models.TableStatusAvailable).Error
}

// lockOrder loads an order for update. SQLite ignores the locking clause
// and serializes writers on its own.
func lockOrder(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(KindOrderNotFound, "order %d not found", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func uintPtr(v uint) *uint { return &v }
