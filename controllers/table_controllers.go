package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/buffet-app/models"
	"github.com/yeremiapane/buffet-app/services"
	"github.com/yeremiapane/buffet-app/utils"
)

// TableController manages the floor plan. Table status is owned by the
// order lifecycle, so there is no endpoint to set it by hand.
type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTable -> new tables always start AVAILABLE
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber string `json:"table_number" binding:"required"`
		Type        string `json:"type"` // STANDARD or VIP, default STANDARD
	}
	if !bindJSON(c, &req) {
		return
	}

	table := models.Table{
		TableNumber: strings.TrimSpace(req.TableNumber),
		Type:        models.TableTypeStandard,
		Status:      models.TableStatusAvailable,
	}
	switch strings.ToUpper(req.Type) {
	case "", models.TableTypeStandard:
	case models.TableTypeVIP:
		table.Type = models.TableTypeVIP
	default:
		utils.RespondErrorCode(c, http.StatusBadRequest, string(services.KindInvalidInput),
			fmt.Errorf("unknown table type %q", req.Type))
		return
	}

	if err := tc.DB.WithContext(c.Request.Context()).Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New table created: %s", table.Label())
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> ?status=AVAILABLE|RESERVED
func (tc *TableController) GetAllTables(c *gin.Context) {
	query := tc.DB.WithContext(c.Request.Context())
	if status := c.Query("status"); status != "" {
		if status != models.TableStatusAvailable && status != models.TableStatusReserved {
			utils.RespondErrorCode(c, http.StatusBadRequest, string(services.KindInvalidInput),
				fmt.Errorf("unknown table status %q", status))
			return
		}
		query = query.Where("status = ?", status)
	}

	var tables []models.Table
	if err := query.Order("id ASC").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (tc *TableController) GetTableByID(c *gin.Context) {
	tableID, ok := uintParam(c, "table_id")
	if !ok {
		return
	}
	var table models.Table
	err := tc.DB.WithContext(c.Request.Context()).First(&table, tableID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondErrorCode(c, http.StatusNotFound, string(services.KindNotFound),
			fmt.Errorf("table %d not found", tableID))
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}
