package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentMethodCash       = "CASH"
	PaymentMethodCreditCard = "CREDIT_CARD"
	PaymentMethodTransfer   = "TRANSFER"
	PaymentMethodQRCode     = "QR_CODE"
)

const (
	PaymentStatusPaid    = "PAID"
	PaymentStatusPending = "PENDING"
)

var PaymentMethods = []string{
	PaymentMethodCash,
	PaymentMethodCreditCard,
	PaymentMethodTransfer,
	PaymentMethodQRCode,
}

// Bill is written once at checkout and never updated.
type Bill struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"not null;uniqueIndex" json:"order_id"`
	Order         Order           `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"order"`
	Vat           decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"vat"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	NetAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"net_amount"`
	VatAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"vat_amount"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"grand_total"`
	PaymentStatus string          `gorm:"type:varchar(20);not null;default:'PAID'" json:"payment_status"`
	Payment       *Payment        `gorm:"foreignKey:BillID" json:"payment,omitempty"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
}

type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	BillID        uint            `gorm:"not null;uniqueIndex" json:"bill_id"`
	PaymentMethod string          `gorm:"type:varchar(20);not null" json:"payment_method"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
}

func IsPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}
