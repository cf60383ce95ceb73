package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/buffet-app/models"
	"github.com/yeremiapane/buffet-app/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

type DashboardStats struct {
	TableStats struct {
		Available int64 `json:"available"`
		Reserved  int64 `json:"reserved"`
	} `json:"table_stats"`
	OrderStats struct {
		Pending    int64 `json:"pending"`
		InProgress int64 `json:"in_progress"`
		Archived   int64 `json:"archived"`
	} `json:"order_stats"`
	KitchenStats struct {
		Pending int64 `json:"pending"`
		Cooking int64 `json:"cooking"`
	} `json:"kitchen_stats"`
	TodayBills   int64           `json:"today_bills"`
	TodayRevenue decimal.Decimal `json:"today_revenue"`
}

// GetDashboardStats -> floor, kitchen and till summary for today
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	db := ac.DB.WithContext(c.Request.Context())
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var stats DashboardStats
	counts := []struct {
		model interface{}
		query string
		args  []interface{}
		dst   *int64
	}{
		{&models.Table{}, "status = ?", []interface{}{models.TableStatusAvailable}, &stats.TableStats.Available},
		{&models.Table{}, "status = ?", []interface{}{models.TableStatusReserved}, &stats.TableStats.Reserved},
		{&models.Order{}, "status = ? AND is_deleted = ?", []interface{}{models.OrderStatusPending, false}, &stats.OrderStats.Pending},
		{&models.Order{}, "status = ? AND is_deleted = ?", []interface{}{models.OrderStatusInProgress, false}, &stats.OrderStats.InProgress},
		{&models.Order{}, "is_deleted = ?", []interface{}{true}, &stats.OrderStats.Archived},
		{&models.OrderItem{}, "status = ?", []interface{}{models.ItemStatusPending}, &stats.KitchenStats.Pending},
		{&models.OrderItem{}, "status = ?", []interface{}{models.ItemStatusCooking}, &stats.KitchenStats.Cooking},
		{&models.Bill{}, "created_at >= ?", []interface{}{startOfDay}, &stats.TodayBills},
	}
	for _, q := range counts {
		if err := db.Model(q.model).Where(q.query, q.args...).Count(q.dst).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	err := db.Model(&models.Bill{}).
		Where("created_at >= ? AND payment_status = ?", startOfDay, models.PaymentStatusPaid).
		Select("COALESCE(SUM(grand_total), 0)").
		Row().Scan(&stats.TodayRevenue)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}
