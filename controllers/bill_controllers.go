package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/buffet-app/services"
	"github.com/yeremiapane/buffet-app/utils"
)

type BillController struct {
	Billing *services.BillingService
}

func NewBillController(billing *services.BillingService) *BillController {
	return &BillController{Billing: billing}
}

// CreateBill -> checkout: bill the order, complete it and free the table
func (bc *BillController) CreateBill(c *gin.Context) {
	var req services.CreateBillInput
	if !bindJSON(c, &req) {
		return
	}

	bill, err := bc.Billing.CreateBill(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Bill created", bill)
}

// PreviewBill -> ?order_id=1&vat=7&discount=0, nothing is stored
func (bc *BillController) PreviewBill(c *gin.Context) {
	orderID, ok := uintQuery(c, "order_id")
	if !ok {
		return
	}
	if orderID == 0 {
		utils.RespondErrorCode(c, http.StatusBadRequest, string(services.KindInvalidInput),
			fmt.Errorf("order_id is required"))
		return
	}
	vat, ok := decimalQuery(c, "vat", services.DefaultVatPercent)
	if !ok {
		return
	}
	discount, ok := decimalQuery(c, "discount", decimal.Zero)
	if !ok {
		return
	}

	preview, err := bc.Billing.Preview(c.Request.Context(), orderID, vat, discount)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bill preview", preview)
}

func (bc *BillController) GetBill(c *gin.Context) {
	billID, ok := uintParam(c, "bill_id")
	if !ok {
		return
	}
	bill, err := bc.Billing.GetBill(c.Request.Context(), billID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bill detail", bill)
}

func (bc *BillController) GetBillByOrder(c *gin.Context) {
	orderID, ok := uintParam(c, "order_id")
	if !ok {
		return
	}
	bill, err := bc.Billing.GetBillByOrder(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bill detail", bill)
}

// GetReceiptPDF -> printable receipt
func (bc *BillController) GetReceiptPDF(c *gin.Context) {
	billID, ok := uintParam(c, "bill_id")
	if !ok {
		return
	}
	bill, err := bc.Billing.GetBill(c.Request.Context(), billID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=receipt-%d.pdf", bill.ID))
	c.Status(http.StatusOK)
	if err := services.WriteReceiptPDF(c.Writer, bill); err != nil {
		utils.ErrorLogger.Printf("Failed to render receipt for bill %d: %v", bill.ID, err)
	}
}

func decimalQuery(c *gin.Context, name string, fallback decimal.Decimal) (decimal.Decimal, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, string(services.KindInvalidInput),
			fmt.Errorf("invalid %s %q", name, raw))
		return decimal.Zero, false
	}
	return d, true
}
