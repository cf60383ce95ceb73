package controllers_test

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type billPayload struct {
	ID            uint   `json:"id"`
	OrderID       uint   `json:"order_id"`
	TotalAmount   string `json:"total_amount"`
	VatAmount     string `json:"vat_amount"`
	GrandTotal    string `json:"grand_total"`
	PaymentStatus string `json:"payment_status"`
	Payment       struct {
		PaymentMethod string `json:"payment_method"`
	} `json:"payment"`
	Order orderPayload `json:"order"`
}

func TestCreateBill(t *testing.T) {
	r := setupRouter(setupTestDB(t))
	order := createOrder(t, r, plainTable, porkBuffet, 3)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/bills/preview?order_id=%d", order.Order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var preview struct {
		GrandTotal string `json:"grand_total"`
	}
	decode(t, w, &preview)
	assert.Equal(t, "959.79", preview.GrandTotal)

	w = doJSON(t, r, http.MethodPost, "/bills", map[string]interface{}{
		"order_id": order.Order.ID, "vat": 7, "discount": 0, "payment_method": "CASH",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var bill billPayload
	decode(t, w, &bill)
	assert.Equal(t, "897", bill.TotalAmount)
	assert.Equal(t, "62.79", bill.VatAmount)
	assert.Equal(t, "959.79", bill.GrandTotal)
	assert.Equal(t, "PAID", bill.PaymentStatus)
	assert.Equal(t, "CASH", bill.Payment.PaymentMethod)
	assert.Equal(t, "COMPLETED", bill.Order.Status)

	w = doJSON(t, r, http.MethodGet, "/tables/1", nil)
	var table struct {
		Status string `json:"status"`
	}
	decode(t, w, &table)
	assert.Equal(t, "AVAILABLE", table.Status)

	w = doJSON(t, r, http.MethodPost, "/bills", map[string]interface{}{
		"order_id": order.Order.ID, "vat": 7, "payment_method": "CASH",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_BILL", decode(t, w, nil).Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/bills/order/%d", order.Order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var byOrder billPayload
	decode(t, w, &byOrder)
	assert.Equal(t, bill.ID, byOrder.ID)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/bills/%d/receipt.pdf", bill.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
}

func TestCreateBillValidation(t *testing.T) {
	r := setupRouter(setupTestDB(t))
	order := createOrder(t, r, plainTable, porkBuffet, 4)

	tests := []struct {
		name string
		body map[string]interface{}
		code int
		kind string
	}{
		{"missing method", map[string]interface{}{"order_id": order.Order.ID, "vat": 7}, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown method", map[string]interface{}{"order_id": order.Order.ID, "vat": 7, "payment_method": "CHEQUE"}, http.StatusBadRequest, "INVALID_INPUT"},
		{"vat too high", map[string]interface{}{"order_id": order.Order.ID, "vat": 150, "payment_method": "CASH"}, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown order", map[string]interface{}{"order_id": 999, "vat": 7, "payment_method": "CASH"}, http.StatusNotFound, "ORDER_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/bills", tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
			assert.Equal(t, tt.kind, decode(t, w, nil).Code)
		})
	}

	w := doJSON(t, r, http.MethodGet, "/bills/preview", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/bills/preview?order_id=%d&vat=seven", order.Order.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, r, http.MethodGet, "/bills/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBillClampedToZero(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	w := doJSON(t, r, http.MethodPost, "/buffet-types", map[string]interface{}{
		"name": "Lunch", "price_per_head": 300, "tier": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var bt struct {
		ID uint `json:"id"`
	}
	decode(t, w, &bt)

	order := createOrder(t, r, otherTable, bt.ID, 4)
	w = doJSON(t, r, http.MethodPost, "/bills", map[string]interface{}{
		"order_id": order.Order.ID, "vat": 7, "discount": 2000, "payment_method": "TRANSFER",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var bill billPayload
	decode(t, w, &bill)
	assert.Equal(t, "0", bill.GrandTotal)
}
