package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/buffet-app/models"
	"github.com/yeremiapane/buffet-app/utils"
	"gorm.io/gorm"
)

var (
	hundred = decimal.NewFromInt(100)

	// DefaultVatPercent is the Thai standard VAT rate.
	DefaultVatPercent = decimal.NewFromInt(7)
)

type BillAmounts struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	VatAmount   decimal.Decimal `json:"vat_amount"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

// CalculateBill prices a buffet: headcount times the per-head price, plus
// VAT, minus discount. The grand total never goes below zero.
func CalculateBill(pricePerHead decimal.Decimal, headcount int, vat, discount decimal.Decimal) BillAmounts {
	total := pricePerHead.Mul(decimal.NewFromInt(int64(headcount))).Round(2)
	net := total
	vatAmount := net.Mul(vat).Div(hundred).Round(2)
	grand := net.Add(vatAmount).Sub(discount).Round(2)
	if grand.IsNegative() {
		grand = decimal.Zero
	}
	return BillAmounts{
		TotalAmount: total,
		NetAmount:   net,
		VatAmount:   vatAmount,
		GrandTotal:  grand,
	}
}

type CreateBillInput struct {
	OrderID       uint            `json:"order_id" binding:"required"`
	Vat           decimal.Decimal `json:"vat"`
	Discount      decimal.Decimal `json:"discount"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	PaymentStatus string          `json:"payment_status"`
}

func validateCharges(vat, discount decimal.Decimal) error {
	if vat.IsNegative() || vat.GreaterThan(hundred) {
		return newError(KindInvalidInput, "vat must be between 0 and 100")
	}
	if discount.IsNegative() {
		return newError(KindInvalidInput, "discount cannot be negative")
	}
	return nil
}

func (in *CreateBillInput) validate() error {
	if err := validateCharges(in.Vat, in.Discount); err != nil {
		return err
	}
	if !models.IsPaymentMethod(in.PaymentMethod) {
		return newError(KindInvalidInput, "unknown payment method %q", in.PaymentMethod)
	}
	switch in.PaymentStatus {
	case "":
		in.PaymentStatus = models.PaymentStatusPaid
	case models.PaymentStatusPaid, models.PaymentStatusPending:
	default:
		return newError(KindInvalidInput, "unknown payment status %q", in.PaymentStatus)
	}
	return nil
}

// BillPreview is what the checkout page shows before the bill is written.
type BillPreview struct {
	Order *models.Order `json:"order"`
	BillAmounts
}

// BillingService closes orders into bills.
type BillingService struct {
	db *gorm.DB
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{db: db}
}

// CreateBill writes the one bill an order may have, completes the order and
// frees its table.
func (s *BillingService) CreateBill(ctx context.Context, in CreateBillInput) (*models.Bill, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var bill models.Bill
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, in.OrderID)
		if err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.Bill{}).Where("order_id = ?", order.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return newError(KindDuplicateBill, "order %d has already been billed", order.ID)
		}
		if order.IsDeleted || order.Status == models.OrderStatusCancelled {
			return newError(KindInvalidState, "order %d is cancelled and cannot be billed", order.ID)
		}

		var buffet models.BuffetType
		if err := tx.First(&buffet, order.BuffetTypeID).Error; err != nil {
			return err
		}
		amounts := CalculateBill(buffet.PricePerHead, order.Headcount, in.Vat, in.Discount)

		bill = models.Bill{
			OrderID:       order.ID,
			Vat:           in.Vat,
			Discount:      in.Discount,
			TotalAmount:   amounts.TotalAmount,
			NetAmount:     amounts.NetAmount,
			VatAmount:     amounts.VatAmount,
			GrandTotal:    amounts.GrandTotal,
			PaymentStatus: in.PaymentStatus,
			Payment: &models.Payment{
				PaymentMethod: in.PaymentMethod,
				Amount:        amounts.GrandTotal,
			},
		}
		if err := tx.Omit("Order").Create(&bill).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return newError(KindDuplicateBill, "order %d has already been billed", order.ID)
			}
			return err
		}

		if order.Status != models.OrderStatusCompleted {
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Update("status", models.OrderStatusCompleted).Error; err != nil {
				return err
			}
		}
		if order.IsLive() {
			if err := releaseTable(tx, order.TableID); err != nil {
				return err
			}
		}

		return recordEvent(tx, models.EventBillCreated,
			fmt.Sprintf("Order #%d billed %s", order.ID, utils.FormatBaht(amounts.GrandTotal)),
			uintPtr(order.ID), nil, uintPtr(order.TableID))
	})
	if err != nil {
		return nil, storageError("create bill", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"bill_id":        bill.ID,
		"order_id":       bill.OrderID,
		"grand_total":    bill.GrandTotal.StringFixed(2),
		"payment_method": in.PaymentMethod,
	}).Info("Bill created")

	return s.GetBill(ctx, bill.ID)
}

// Preview prices an order without writing anything.
func (s *BillingService) Preview(ctx context.Context, orderID uint, vat, discount decimal.Decimal) (*BillPreview, error) {
	if err := validateCharges(vat, discount); err != nil {
		return nil, err
	}

	var order models.Order
	err := s.db.WithContext(ctx).Preload("Table").Preload("BuffetType").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(KindOrderNotFound, "order %d not found", orderID)
	}
	if err != nil {
		return nil, storageError("preview bill", err)
	}

	return &BillPreview{
		Order:       &order,
		BillAmounts: CalculateBill(order.BuffetType.PricePerHead, order.Headcount, vat, discount),
	}, nil
}

func (s *BillingService) GetBill(ctx context.Context, billID uint) (*models.Bill, error) {
	return s.findBill(ctx, "id = ?", billID)
}

func (s *BillingService) GetBillByOrder(ctx context.Context, orderID uint) (*models.Bill, error) {
	return s.findBill(ctx, "order_id = ?", orderID)
}

func (s *BillingService) findBill(ctx context.Context, query string, arg uint) (*models.Bill, error) {
	var bill models.Bill
	err := s.db.WithContext(ctx).
		Preload("Payment").
		Preload("Order").
		Preload("Order.Table").
		Preload("Order.Employee").
		Preload("Order.BuffetType").
		Preload("Order.OrderItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Order.OrderItems.MenuItem").
		Where(query, arg).
		First(&bill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(KindNotFound, "bill not found")
	}
	if err != nil {
		return nil, storageError("get bill", err)
	}
	return &bill, nil
}
