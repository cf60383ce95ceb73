package services

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/buffet-app/models"
)

const receiptTimeLayout = "02 Jan 2006 15:04"

// WriteReceiptPDF renders a loaded bill (see BillingService.GetBill) as an
// A5 receipt. Core PDF fonts carry no Thai glyphs, so the English menu
// names are printed.
func WriteReceiptPDF(w io.Writer, bill *models.Bill) error {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetTitle(fmt.Sprintf("Receipt #%d", bill.ID), false)
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	order := bill.Order

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, "Buffet Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Bill #%d  /  Order #%d", bill.ID, order.ID), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, bill.CreatedAt.Format(receiptTimeLayout), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	receiptLine(pdf, "Table", tr(order.Table.Label()))
	receiptLine(pdf, "Served by", tr(order.Employee.FullName()))
	receiptLine(pdf, "Buffet", tr(order.BuffetType.Name))
	receiptLine(pdf, "Guests", fmt.Sprintf("%d x %s", order.Headcount, baht(order.BuffetType.PricePerHead)))
	pdf.Ln(3)

	if len(order.OrderItems) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(90, 6, "Item", "B", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, "Qty", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, item := range order.OrderItems {
			if item.Status == models.ItemStatusCancelled {
				continue
			}
			pdf.CellFormat(90, 5, tr(item.MenuItem.NameEN), "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 5, fmt.Sprintf("%d", item.Quantity), "", 1, "R", false, 0, "")
		}
		pdf.Ln(3)
	}

	pdf.SetFont("Helvetica", "", 10)
	receiptLine(pdf, "Total", baht(bill.TotalAmount))
	receiptLine(pdf, fmt.Sprintf("VAT %s%%", bill.Vat.String()), baht(bill.VatAmount))
	if bill.Discount.IsPositive() {
		receiptLine(pdf, "Discount", "-"+baht(bill.Discount))
	}
	pdf.SetFont("Helvetica", "B", 12)
	receiptLine(pdf, "Grand total", baht(bill.GrandTotal))

	pdf.SetFont("Helvetica", "", 9)
	pdf.Ln(2)
	if bill.Payment != nil {
		receiptLine(pdf, "Payment", bill.Payment.PaymentMethod)
	}
	receiptLine(pdf, "Status", bill.PaymentStatus)

	return pdf.Output(w)
}

func receiptLine(pdf *fpdf.Fpdf, label, value string) {
	pdf.CellFormat(50, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, value, "", 1, "R", false, 0, "")
}

func baht(d decimal.Decimal) string {
	return "THB " + d.StringFixed(2)
}
