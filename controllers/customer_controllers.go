package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/buffet-app/services"
	"github.com/yeremiapane/buffet-app/utils"
)

// CustomerController serves the pages a guest reaches by scanning the table
// QR code. The tracking token is the only credential.
type CustomerController struct {
	Orders  *services.OrderService
	Menu    *services.MenuService
	Kitchen *services.KitchenService
}

func NewCustomerController(orders *services.OrderService, menu *services.MenuService, kitchen *services.KitchenService) *CustomerController {
	return &CustomerController{Orders: orders, Menu: menu, Kitchen: kitchen}
}

// GetSession -> order header, buffet menu and what was already ordered
func (cc *CustomerController) GetSession(c *gin.Context) {
	order, err := cc.Orders.GetOrderByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	view, err := cc.Menu.Session(c.Request.Context(), order)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer session", view)
}

func (cc *CustomerController) SubmitCart(c *gin.Context) {
	var req cartRequest
	if !bindJSON(c, &req) {
		return
	}
	items, err := cc.Kitchen.SubmitCartByToken(c.Request.Context(), c.Param("token"), req.Items)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order sent to kitchen", items)
}
