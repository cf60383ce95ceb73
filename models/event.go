package models

import (
	"time"
)

// Event kinds published to polling clients.
const (
	EventOrderCreated  = "order_created"
	EventOrderStatus   = "order_status"
	EventOrderArchived = "order_archived"
	EventOrderRestored = "order_restored"
	EventCartSubmitted = "cart_submitted"
	EventItemStatus    = "item_status"
	EventBillCreated   = "bill_created"
)

type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Kind        string    `gorm:"type:varchar(30);not null;index" json:"kind"`
	OrderID     *uint     `gorm:"index" json:"order_id,omitempty"`
	OrderItemID *uint     `json:"order_item_id,omitempty"`
	TableID     *uint     `json:"table_id,omitempty"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}
