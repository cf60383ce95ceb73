package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BuffetType is a priced buffet package. Tier decides which menu items a
// table on this buffet may order: every item owned by a buffet of the same
// or a lower tier.
type BuffetType struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"type:varchar(100);not null" json:"name"`
	PricePerHead decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_per_head"`
	Tier         int             `gorm:"not null;default:1;index" json:"tier"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updated_at"`
}

type MenuItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	NameTH       string          `gorm:"type:varchar(255);not null" json:"name_th"`
	NameEN       string          `gorm:"type:varchar(255);not null" json:"name_en"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Category     string          `gorm:"type:varchar(100);not null;index" json:"category"`
	BuffetTypeID uint            `gorm:"not null;index" json:"buffet_type_id"`
	BuffetType   BuffetType      `gorm:"foreignKey:BuffetTypeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"buffet_type"`
	Available    bool            `gorm:"not null" json:"available"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updated_at"`
}
