package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/buffet-app/models"
	"github.com/yeremiapane/buffet-app/utils"
)

// RoleCheck lets through the listed roles. Admin is always allowed.
func RoleCheck(roles ...string) gin.HandlerFunc {
	allowed := map[string]bool{models.RoleAdmin: true}
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}
		if !allowed[role] {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("role %s may not access this resource", role))
			c.Abort()
			return
		}
		c.Next()
	}
}
