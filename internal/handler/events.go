package handler

import (
	"event-inventory/internal/inventory"
	"event-inventory/internal/util"

	"github.com/gin-gonic/gin"
)

type eventReq struct {
	Name string `json:"name"`
	Date string `json:"date"` // YYYY-MM-DD
}

func (h *InventoryHandler) ListEvents(c *gin.Context) {
	events, err := h.Svc.ListEvents(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	util.Success(c, util.Response{"events": events})
}

func (h *InventoryHandler) CreateEvent(c *gin.Context) {
	var req eventReq
	if !bindJSON(c, &req) {
		return
	}
	date, err := util.ParseDate(req.Date)
	if err != nil {
		h.fail(c, inventory.NewValidationError("date", err.Error()))
		return
	}

	event, err := h.Svc.AddEvent(c.Request.Context(), req.Name, date)
	if err != nil {
		h.fail(c, err)
		return
	}
	util.Created(c, util.Response{"event": event})
}

// DeleteEvent removes the event with its transactions and todos.
func (h *InventoryHandler) DeleteEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteEvent(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	util.Success(c, util.Response{"id": id})
}

func (h *InventoryHandler) GetEventStats(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	stats, err := h.Svc.ComputeStats(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	util.Success(c, util.Response{"stats": stats})
}
