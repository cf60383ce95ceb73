package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"github.com/yeremiapane/buffet-app/services"
	"github.com/yeremiapane/buffet-app/utils"
)

const qrSize = 256

type OrderController struct {
	Orders        *services.OrderService
	PublicBaseURL string
}

func NewOrderController(orders *services.OrderService, publicBaseURL string) *OrderController {
	return &OrderController{Orders: orders, PublicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

// CreateOrder -> open an order on a table. The employee defaults to the
// logged-in one.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.CreateOrderInput
	if !bindJSON(c, &req) {
		return
	}
	if req.EmployeeID == 0 {
		req.EmployeeID = c.GetUint("employee_id")
	}

	order, err := oc.Orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", gin.H{
		"order":        order,
		"tracking_url": oc.trackingURL(order.TrackingToken),
		"buffet_total": order.BuffetTotal(),
	})
}

// GetAllOrders -> ?deleted=true|false&status=...
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var filter services.OrderFilter
	if raw := c.Query("deleted"); raw != "" {
		deleted, err := strconv.ParseBool(raw)
		if err != nil {
			utils.RespondErrorCode(c, http.StatusBadRequest, string(services.KindInvalidInput),
				fmt.Errorf("invalid deleted flag %q", raw))
			return
		}
		filter.Deleted = &deleted
	}
	filter.Status = c.Query("status")

	orders, err := oc.Orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrder -> by numeric id or tracking token
func (oc *OrderController) GetOrder(c *gin.Context) {
	order, err := oc.Orders.FindOrder(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", gin.H{
		"order":        order,
		"tracking_url": oc.trackingURL(order.TrackingToken),
		"buffet_total": order.BuffetTotal(),
	})
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := uintParam(c, "order_id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}

	order, err := oc.Orders.UpdateOrderStatus(c.Request.Context(), orderID, body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

func (oc *OrderController) SoftDeleteOrder(c *gin.Context) {
	orderID, ok := uintParam(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.Orders.SoftDeleteOrder(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order archived", order)
}

func (oc *OrderController) RestoreOrder(c *gin.Context) {
	orderID, ok := uintParam(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.Orders.RestoreOrder(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order restored", order)
}

// GetOrderQR -> PNG QR code of the customer's tracking link
func (oc *OrderController) GetOrderQR(c *gin.Context) {
	orderID, ok := uintParam(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.Orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	png, err := qrcode.Encode(oc.trackingURL(order.TrackingToken), qrcode.Medium, qrSize)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (oc *OrderController) trackingURL(token string) string {
	return oc.PublicBaseURL + "/menu/" + token
}
