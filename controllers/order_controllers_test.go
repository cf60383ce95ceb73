package controllers_test

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	r := setupRouter(setupTestDB(t))

	out := createOrder(t, r, plainTable, porkBuffet, 3)
	assert.Equal(t, "PENDING", out.Order.Status)
	assert.False(t, out.Order.IsDeleted)
	assert.Equal(t, baseURL+"/menu/"+out.Order.TrackingToken, out.TrackingURL)
	assert.Equal(t, "897", out.BuffetTotal)

	w := doJSON(t, r, http.MethodGet, "/tables/1", nil)
	var table struct {
		Status string `json:"status"`
	}
	decode(t, w, &table)
	assert.Equal(t, "RESERVED", table.Status)

	w = doJSON(t, r, http.MethodPost, "/orders", map[string]interface{}{
		"table_id": plainTable, "buffet_type_id": beefBuffet, "headcount": 2,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	env := decode(t, w, nil)
	assert.False(t, env.Status)
	assert.Equal(t, "TABLE_UNAVAILABLE", env.Code)
}

func TestCreateOrderValidation(t *testing.T) {
	r := setupRouter(setupTestDB(t))

	w := doJSON(t, r, http.MethodPost, "/orders", map[string]interface{}{"headcount": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", decode(t, w, nil).Code)

	w = doJSON(t, r, http.MethodPost, "/orders", map[string]interface{}{
		"table_id": plainTable, "buffet_type_id": porkBuffet, "headcount": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/orders", map[string]interface{}{
		"table_id": 404, "buffet_type_id": porkBuffet, "headcount": 2,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w, nil).Code)
}

func TestOrderStatusEndpoints(t *testing.T) {
	r := setupRouter(setupTestDB(t))
	order := createOrder(t, r, plainTable, porkBuffet, 2)
	path := fmt.Sprintf("/orders/%d", order.Order.ID)

	w := doJSON(t, r, http.MethodPatch, path+"/status", map[string]string{"status": "IN_PROGRESS"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_STATUS", decode(t, w, nil).Code)

	w = doJSON(t, r, http.MethodPatch, "/orders/999/status", map[string]string{"status": "COMPLETED"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", decode(t, w, nil).Code)

	w = doJSON(t, r, http.MethodPatch, "/orders/abc/status", map[string]string{"status": "COMPLETED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, path+"/soft-delete", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var archived orderPayload
	decode(t, w, &archived)
	assert.True(t, archived.IsDeleted)
	assert.Equal(t, "CANCELLED", archived.Status)

	w = doJSON(t, r, http.MethodPatch, path+"/status", map[string]string{"status": "COMPLETED"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATE", decode(t, w, nil).Code)

	w = doJSON(t, r, http.MethodPut, path+"/restore", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var restored orderPayload
	decode(t, w, &restored)
	assert.False(t, restored.IsDeleted)
	assert.Equal(t, "PENDING", restored.Status)

	w = doJSON(t, r, http.MethodPatch, path+"/status", map[string]string{"status": "COMPLETED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestGetOrderByTokenAndList(t *testing.T) {
	r := setupRouter(setupTestDB(t))
	first := createOrder(t, r, plainTable, porkBuffet, 2)
	createOrder(t, r, otherTable, beefBuffet, 4)

	w := doJSON(t, r, http.MethodGet, "/orders/"+first.Order.TrackingToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got createdOrder
	decode(t, w, &got)
	assert.Equal(t, first.Order.ID, got.Order.ID)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/orders/%d/soft-delete", first.Order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/orders?deleted=false", nil)
	var active []orderPayload
	decode(t, w, &active)
	require.Len(t, active, 1)
	assert.Equal(t, uint(otherTable), active[0].TableID)

	w = doJSON(t, r, http.MethodGet, "/orders?deleted=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrderQR(t *testing.T) {
	r := setupRouter(setupTestDB(t))
	order := createOrder(t, r, vipTableID, beefBuffet, 2)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/orders/%d/qr", order.Order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))

	w = doJSON(t, r, http.MethodGet, "/orders/999/qr", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, strings.Contains(w.Header().Get("Content-Type"), "application/json"))
}
