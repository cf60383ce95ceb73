package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/buffet-app/services"
	"github.com/yeremiapane/buffet-app/utils"
)

type EventController struct {
	Events *services.EventService
}

func NewEventController(events *services.EventService) *EventController {
	return &EventController{Events: events}
}

// GetEvents -> ?after=<last seen id>&limit=50. Clients poll this instead of
// holding a socket open. Only events older than the settle window are
// returned, so "next" is a safe cursor for commits that land within that
// window; an empty page echoes "after" back.
func (ec *EventController) GetEvents(c *gin.Context) {
	after, ok := uintQuery(c, "after")
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.RespondErrorCode(c, http.StatusBadRequest, string(services.KindInvalidInput),
				fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	events, err := ec.Events.ListAfter(c.Request.Context(), after, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	next := after
	if len(events) > 0 {
		next = events[len(events)-1].ID
	}
	utils.RespondJSON(c, http.StatusOK, "List of events", gin.H{
		"events": events,
		"next":   next,
	})
}
