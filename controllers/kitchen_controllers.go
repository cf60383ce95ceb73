package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/buffet-app/services"
	"github.com/yeremiapane/buffet-app/utils"
)

// KitchenController serves the kitchen display: line items and their
// preparation status.
type KitchenController struct {
	Kitchen *services.KitchenService
}

func NewKitchenController(kitchen *services.KitchenService) *KitchenController {
	return &KitchenController{Kitchen: kitchen}
}

type cartRequest struct {
	Items []services.CartItem `json:"items"`
}

// SubmitCart -> staff adds items to an order on behalf of the table
func (kc *KitchenController) SubmitCart(c *gin.Context) {
	orderID, ok := uintParam(c, "order_id")
	if !ok {
		return
	}
	var req cartRequest
	if !bindJSON(c, &req) {
		return
	}

	items, err := kc.Kitchen.SubmitCart(c.Request.Context(), orderID, req.Items)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Items sent to kitchen", items)
}

// GetOrderItems -> ?status=PENDING&order_id=1
func (kc *KitchenController) GetOrderItems(c *gin.Context) {
	orderID, ok := uintQuery(c, "order_id")
	if !ok {
		return
	}
	tickets, err := kc.Kitchen.ListItems(c.Request.Context(), services.ItemFilter{
		Status:  c.Query("status"),
		OrderID: orderID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of order items", tickets)
}

func (kc *KitchenController) UpdateItemStatus(c *gin.Context) {
	itemID, ok := uintParam(c, "item_id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}

	item, err := kc.Kitchen.UpdateItemStatus(c.Request.Context(), itemID, body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item status updated", item)
}
