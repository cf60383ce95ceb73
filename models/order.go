package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending    = "PENDING"
	OrderStatusInProgress = "IN_PROGRESS"
	OrderStatusCompleted  = "COMPLETED"
	OrderStatusCancelled  = "CANCELLED"
)

type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	TableID         uint        `gorm:"not null;index" json:"table_id"`
	Table           Table       `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table"`
	EmployeeID      uint        `gorm:"not null;index" json:"employee_id"`
	Employee        Employee    `gorm:"foreignKey:EmployeeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"employee"`
	BuffetTypeID    uint        `gorm:"not null;index" json:"buffet_type_id"`
	BuffetType      BuffetType  `gorm:"foreignKey:BuffetTypeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"buffet_type"`
	Status          string      `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	IsDeleted       bool        `gorm:"not null;default:false;index" json:"is_deleted"`
	PreDeleteStatus string      `gorm:"type:varchar(20)" json:"pre_delete_status,omitempty"`
	Headcount       int         `gorm:"not null;default:1" json:"headcount"`
	TrackingToken   string      `gorm:"type:varchar(36);not null;uniqueIndex" json:"tracking_token"`
	CreatedAt       time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null" json:"updated_at"`
	OrderItems      []OrderItem `gorm:"foreignKey:OrderID" json:"order_items,omitempty"`
}

// IsLive reports whether the order currently holds its table.
func (o *Order) IsLive() bool {
	return !o.IsDeleted && !IsTerminalOrderStatus(o.Status)
}

// BuffetTotal is the per-head price times headcount. BuffetType must be loaded.
func (o *Order) BuffetTotal() decimal.Decimal {
	return o.BuffetType.PricePerHead.Mul(decimal.NewFromInt(int64(o.Headcount)))
}

func IsTerminalOrderStatus(status string) bool {
	return status == OrderStatusCompleted || status == OrderStatusCancelled
}
