package models

import (
	"time"
)

const (
	ItemStatusPending   = "PENDING"
	ItemStatusCooking   = "COOKING"
	ItemStatusServed    = "SERVED"
	ItemStatusCancelled = "CANCELLED"
)

// ItemStatusRank is the kitchen display order: open tickets first.
var ItemStatusRank = map[string]int{
	ItemStatusPending:   0,
	ItemStatusCooking:   1,
	ItemStatusServed:    2,
	ItemStatusCancelled: 3,
}

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order      Order     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	MenuItemID uint      `gorm:"not null;index" json:"menu_item_id"`
	MenuItem   MenuItem  `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu_item"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Status     string    `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

// KitchenTicket is an OrderItem with the table it must be served to.
type KitchenTicket struct {
	OrderItem
	TableID     uint   `json:"table_id"`
	TableNumber string `json:"table_number"`
}
