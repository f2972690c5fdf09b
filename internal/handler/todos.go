package handler

import (
	"event-inventory/internal/util"

	"github.com/gin-gonic/gin"
)

type todoReq struct {
	Description string        `json:"description"`
	EventID     *util.FlexInt `json:"event_id"`
}

func (h *InventoryHandler) ListTodos(c *gin.Context) {
	todos, err := h.Svc.ListTodos(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	util.Success(c, util.Response{"todos": todos})
}

func (h *InventoryHandler) CreateTodo(c *gin.Context) {
	var req todoReq
	if !bindJSON(c, &req) {
		return
	}
	eventID, err := requireID("event_id", req.EventID)
	if err != nil {
		h.fail(c, err)
		return
	}

	todo, err := h.Svc.AddTodo(c.Request.Context(), req.Description, eventID)
	if err != nil {
		h.fail(c, err)
		return
	}
	util.Created(c, util.Response{"todo": todo})
}

// CompleteTodo marks the todo done, which deletes it.
func (h *InventoryHandler) CompleteTodo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.CompleteTodo(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	util.Success(c, util.Response{"id": id})
}
