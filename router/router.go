package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/buffet-app/config"
	"github.com/yeremiapane/buffet-app/controllers"
	"github.com/yeremiapane/buffet-app/middlewares"
	"github.com/yeremiapane/buffet-app/models"
	"github.com/yeremiapane/buffet-app/services"
	"github.com/yeremiapane/buffet-app/utils"
)

func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders(cfg.GinMode == gin.ReleaseMode))
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigins))
	r.Use(middlewares.LoggerMiddleware())

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	orderSvc := services.NewOrderService(db)
	kitchenSvc := services.NewKitchenService(db)
	billingSvc := services.NewBillingService(db)
	menuSvc := services.NewMenuService(db)
	eventSvc := services.NewEventService(db, cfg.EventSettle)

	// Inisialisasi controller
	employeeCtrl := controllers.NewEmployeeController(db, tokens)
	tableCtrl := controllers.NewTableController(db)
	adminCtrl := controllers.NewAdminController(db)
	orderCtrl := controllers.NewOrderController(orderSvc, cfg.PublicBaseURL)
	kitchenCtrl := controllers.NewKitchenController(kitchenSvc)
	billCtrl := controllers.NewBillController(billingSvc)
	menuCtrl := controllers.NewMenuController(menuSvc)
	customerCtrl := controllers.NewCustomerController(orderSvc, menuSvc, kitchenSvc)
	eventCtrl := controllers.NewEventController(eventSvc)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	loginLimiter := middlewares.NewStrictRateLimiter()
	r.POST("/login", loginLimiter.RateLimit(), employeeCtrl.Login)

	r.GET("/buffet-types", menuCtrl.GetBuffetTypes)
	r.GET("/buffet-types/:id/menu", menuCtrl.GetBuffetMenu)

	// -- CUSTOMER (tracking token, tanpa auth) --
	customerLimiter := middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	customer := r.Group("/menu/:token", customerLimiter.RateLimit())
	{
		customer.GET("", customerCtrl.GetSession)
		customer.POST("/cart", customerCtrl.SubmitCart)
	}

	// ----------------------------------------------------------------
	//                      STAFF ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/admin", middlewares.AuthMiddleware(tokens))
	{
		admin.GET("/profile", employeeCtrl.GetProfile)
		admin.POST("/logout", employeeCtrl.Logout)
		admin.GET("/events", eventCtrl.GetEvents)

		floor := middlewares.RoleCheck(models.RoleStaff, models.RoleCashier)
		kitchen := middlewares.RoleCheck(models.RoleStaff, models.RoleChef)
		anyStaff := middlewares.RoleCheck(models.RoleStaff, models.RoleCashier, models.RoleChef)
		adminOnly := middlewares.RoleCheck()

		// Orders
		admin.POST("/orders", floor, orderCtrl.CreateOrder)
		admin.GET("/orders", anyStaff, orderCtrl.GetAllOrders)
		admin.GET("/orders/:order_id", anyStaff, orderCtrl.GetOrder)
		admin.PATCH("/orders/:order_id/status", floor, orderCtrl.UpdateOrderStatus)
		admin.PUT("/orders/:order_id/soft-delete", floor, orderCtrl.SoftDeleteOrder)
		admin.PUT("/orders/:order_id/restore", floor, orderCtrl.RestoreOrder)
		admin.GET("/orders/:order_id/qr", floor, orderCtrl.GetOrderQR)

		// Kitchen
		admin.POST("/orders/:order_id/items", floor, kitchenCtrl.SubmitCart)
		admin.GET("/order-items", kitchen, kitchenCtrl.GetOrderItems)
		admin.PATCH("/order-items/:item_id/status", kitchen, kitchenCtrl.UpdateItemStatus)

		// Billing
		bills := admin.Group("/bills", floor, middlewares.BillingHeaders(), middlewares.LogBillingRequest())
		{
			bills.POST("", billCtrl.CreateBill)
			bills.GET("/preview", billCtrl.PreviewBill)
			bills.GET("/order/:order_id", billCtrl.GetBillByOrder)
			bills.GET("/:bill_id", billCtrl.GetBill)
			bills.GET("/:bill_id/receipt.pdf", middlewares.ReceiptLoggerMiddleware(), billCtrl.GetReceiptPDF)
		}

		// Catalog
		admin.POST("/buffet-types", adminOnly, menuCtrl.CreateBuffetType)
		admin.POST("/menu-items", adminOnly, menuCtrl.CreateMenuItem)

		// Tables
		admin.GET("/tables", anyStaff, tableCtrl.GetAllTables)
		admin.GET("/tables/:table_id", anyStaff, tableCtrl.GetTableByID)
		admin.POST("/tables", adminOnly, tableCtrl.CreateTable)

		// Employees & dashboard
		admin.POST("/employees", adminOnly, employeeCtrl.CreateEmployee)
		admin.GET("/dashboard/stats", adminOnly, adminCtrl.GetDashboardStats)
	}

	return r
}
