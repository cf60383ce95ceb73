package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/buffet-app/controllers"
	"github.com/yeremiapane/buffet-app/database"
	"github.com/yeremiapane/buffet-app/services"
	"github.com/yeremiapane/buffet-app/utils"
)

const (
	staffID    = uint(2)
	baseURL    = "http://buffet.test"
	porkBuffet = 1
	beefBuffet = 2
	porkBelly  = 1
	slicedBeef = 4
	vipTableID = 9
	plainTable = 1
	otherTable = 2
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

// setupTestDB returns a seeded in-memory database private to the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db))
	return db
}

// setupRouter mounts every controller without auth; requests act as the
// seeded staff member.
func setupRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("employee_id", staffID)
		c.Set("role", "staff")
		c.Next()
	})

	orderSvc := services.NewOrderService(db)
	kitchenSvc := services.NewKitchenService(db)
	menuSvc := services.NewMenuService(db)

	orderCtrl := controllers.NewOrderController(orderSvc, baseURL+"/")
	kitchenCtrl := controllers.NewKitchenController(kitchenSvc)
	billCtrl := controllers.NewBillController(services.NewBillingService(db))
	menuCtrl := controllers.NewMenuController(menuSvc)
	customerCtrl := controllers.NewCustomerController(orderSvc, menuSvc, kitchenSvc)
	tableCtrl := controllers.NewTableController(db)
	eventCtrl := controllers.NewEventController(services.NewEventService(db, 0))
	adminCtrl := controllers.NewAdminController(db)
	employeeCtrl := controllers.NewEmployeeController(db, utils.NewTokenManager("test-secret", time.Hour))

	r.POST("/login", employeeCtrl.Login)
	r.GET("/profile", employeeCtrl.GetProfile)
	r.POST("/employees", employeeCtrl.CreateEmployee)

	r.GET("/menu/:token", customerCtrl.GetSession)
	r.POST("/menu/:token/cart", customerCtrl.SubmitCart)
	r.GET("/buffet-types", menuCtrl.GetBuffetTypes)
	r.GET("/buffet-types/:id/menu", menuCtrl.GetBuffetMenu)
	r.POST("/buffet-types", menuCtrl.CreateBuffetType)
	r.POST("/menu-items", menuCtrl.CreateMenuItem)

	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders", orderCtrl.GetAllOrders)
	r.GET("/orders/:order_id", orderCtrl.GetOrder)
	r.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
	r.PUT("/orders/:order_id/soft-delete", orderCtrl.SoftDeleteOrder)
	r.PUT("/orders/:order_id/restore", orderCtrl.RestoreOrder)
	r.GET("/orders/:order_id/qr", orderCtrl.GetOrderQR)
	r.POST("/orders/:order_id/items", kitchenCtrl.SubmitCart)
	r.GET("/order-items", kitchenCtrl.GetOrderItems)
	r.PATCH("/order-items/:item_id/status", kitchenCtrl.UpdateItemStatus)

	r.POST("/bills", billCtrl.CreateBill)
	r.GET("/bills/preview", billCtrl.PreviewBill)
	r.GET("/bills/order/:order_id", billCtrl.GetBillByOrder)
	r.GET("/bills/:bill_id", billCtrl.GetBill)
	r.GET("/bills/:bill_id/receipt.pdf", billCtrl.GetReceiptPDF)

	r.GET("/tables", tableCtrl.GetAllTables)
	r.POST("/tables", tableCtrl.CreateTable)
	r.GET("/tables/:table_id", tableCtrl.GetTableByID)
	r.GET("/events", eventCtrl.GetEvents)
	r.GET("/dashboard/stats", adminCtrl.GetDashboardStats)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), string(env.Data))
	}
	return env
}

type orderPayload struct {
	ID            uint   `json:"id"`
	Status        string `json:"status"`
	IsDeleted     bool   `json:"is_deleted"`
	TrackingToken string `json:"tracking_token"`
	TableID       uint   `json:"table_id"`
}

type createdOrder struct {
	Order       orderPayload `json:"order"`
	TrackingURL string       `json:"tracking_url"`
	BuffetTotal string       `json:"buffet_total"`
}

func createOrder(t *testing.T, r http.Handler, tableID, buffetID uint, headcount int) createdOrder {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/orders", gin.H{
		"table_id":       tableID,
		"buffet_type_id": buffetID,
		"headcount":      headcount,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out createdOrder
	decode(t, w, &out)
	return out
}
