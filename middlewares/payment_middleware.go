package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/buffet-app/utils"
)

// BillingHeaders keeps bill and receipt responses out of shared caches.
func BillingHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}

// LogBillingRequest records who touched billing endpoints, for audit.
func LogBillingRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		utils.InfoLogger.WithFields(logrus.Fields{
			"employee_id": c.GetUint("employee_id"),
			"role":        c.GetString("role"),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration":    time.Since(start).String(),
		}).Info("billing request")
	}
}
