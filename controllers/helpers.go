package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/buffet-app/services"
	"github.com/yeremiapane/buffet-app/utils"
)

// CustomError is a plain client-facing error.
type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

var (
	ErrNoPermission       = &CustomError{"You do not have permission"}
	ErrInvalidCredentials = &CustomError{"invalid credentials"}
)

// statusForKind maps a service error kind to an HTTP status.
func statusForKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindOrderNotFound, services.KindNotFound:
		return http.StatusNotFound
	case services.KindTableUnavailable, services.KindDuplicateBill,
		services.KindInvalidState, services.KindInvalidMenuStatus:
		return http.StatusConflict
	case services.KindInvalidStatus, services.KindInvalidCart, services.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondServiceError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	code := statusForKind(kind)
	if code >= http.StatusInternalServerError {
		utils.ErrorLogger.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	utils.RespondErrorCode(c, code, string(kind), err)
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondErrorCode(c, http.StatusBadRequest, string(services.KindInvalidInput),
			fmt.Errorf("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

func uintQuery(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, string(services.KindInvalidInput),
			fmt.Errorf("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, string(services.KindInvalidInput), err)
		return false
	}
	return true
}
