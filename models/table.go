package models

import "time"

const (
	TableTypeStandard = "STANDARD"
	TableTypeVIP      = "VIP"
)

const (
	TableStatusAvailable = "AVAILABLE"
	TableStatusReserved  = "RESERVED"
)

type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TableNumber string    `gorm:"type:varchar(50);not null" json:"table_number"`
	Type        string    `gorm:"type:varchar(20);not null;default:'STANDARD'" json:"type"`
	Status      string    `gorm:"type:varchar(20);not null;default:'AVAILABLE';index" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// Label is the human-facing name used on receipts and the customer page.
func (t Table) Label() string {
	return t.Type + " - Table " + t.TableNumber
}
