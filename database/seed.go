package database

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/buffet-app/models"
	"github.com/yeremiapane/buffet-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the password of the seeded employees.
const SeedPassword = "buffet1234"

// Seed inserts a demo restaurant: tables, employees, two buffet tiers and a
// menu. It does nothing when tables already exist.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Table{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		utils.InfoLogger.Println("Seed skipped: data already present")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := 1; i <= 10; i++ {
			tableType := models.TableTypeStandard
			if i > 8 {
				tableType = models.TableTypeVIP
			}
			table := models.Table{
				TableNumber: fmt.Sprintf("%d", i),
				Type:        tableType,
				Status:      models.TableStatusAvailable,
			}
			if err := tx.Create(&table).Error; err != nil {
				return err
			}
		}

		employees := []models.Employee{
			{FirstName: "Admin", Email: "admin@buffet.local", Role: models.RoleAdmin},
			{FirstName: "Somchai", LastName: "Jaidee", Email: "staff@buffet.local", Role: models.RoleStaff},
			{FirstName: "Malee", LastName: "Srisuk", Email: "chef@buffet.local", Role: models.RoleChef},
			{FirstName: "Anan", LastName: "Boonmee", Email: "cashier@buffet.local", Role: models.RoleCashier},
		}
		for i := range employees {
			employees[i].Password = string(hashed)
		}
		if err := tx.Create(&employees).Error; err != nil {
			return err
		}

		pork := models.BuffetType{Name: "Pork Buffet", PricePerHead: decimal.NewFromInt(299), Tier: 1}
		beef := models.BuffetType{Name: "Pork & Beef Buffet", PricePerHead: decimal.NewFromInt(399), Tier: 2}
		if err := tx.Create(&pork).Error; err != nil {
			return err
		}
		if err := tx.Create(&beef).Error; err != nil {
			return err
		}

		menu := []models.MenuItem{
			{NameTH: "หมูสามชั้น", NameEN: "Pork belly", Category: "หมู", BuffetTypeID: pork.ID},
			{NameTH: "หมูสันคอ", NameEN: "Pork collar", Category: "หมู", BuffetTypeID: pork.ID},
			{NameTH: "หมูหมักงา", NameEN: "Sesame pork", Category: "หมู", BuffetTypeID: pork.ID},
			{NameTH: "เนื้อสไลด์", NameEN: "Sliced beef", Category: "เนื้อ", BuffetTypeID: beef.ID},
			{NameTH: "เนื้อวากิว", NameEN: "Wagyu beef", Category: "เนื้อ", BuffetTypeID: beef.ID},
		}
		for i := range menu {
			menu[i].Price = decimal.Zero
			menu[i].Available = true
		}
		if err := tx.Create(&menu).Error; err != nil {
			return err
		}

		utils.InfoLogger.Println("Seed data inserted")
		return nil
	})
}
