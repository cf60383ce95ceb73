package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/buffet-app/services"
	"github.com/yeremiapane/buffet-app/utils"
)

type MenuController struct {
	Menu *services.MenuService
}

func NewMenuController(menu *services.MenuService) *MenuController {
	return &MenuController{Menu: menu}
}

func (mc *MenuController) GetBuffetTypes(c *gin.Context) {
	types, err := mc.Menu.ListBuffetTypes(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of buffet types", types)
}

// GetBuffetMenu -> items a buffet grants, ?category= to narrow
func (mc *MenuController) GetBuffetMenu(c *gin.Context) {
	buffetID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	items, err := mc.Menu.ScopedMenu(c.Request.Context(), buffetID, c.Query("category"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

func (mc *MenuController) CreateBuffetType(c *gin.Context) {
	var req services.BuffetTypeInput
	if !bindJSON(c, &req) {
		return
	}
	bt, err := mc.Menu.CreateBuffetType(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Buffet type created", bt)
}

func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var req services.MenuItemInput
	if !bindJSON(c, &req) {
		return
	}
	item, err := mc.Menu.CreateMenuItem(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}
