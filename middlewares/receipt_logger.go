package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/buffet-app/utils"
)

func ReceiptLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		billID := c.Param("bill_id")

		c.Next()

		if c.Writer.Status() == 200 {
			utils.InfoLogger.Printf("Receipt generated for bill ID: %s", billID)
		} else {
			utils.ErrorLogger.Printf("Failed to generate receipt for bill ID: %s (status %d)", billID, c.Writer.Status())
		}
	}
}
