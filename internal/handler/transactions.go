package handler

import (
	"strings"

	"event-inventory/internal/inventory"
	"event-inventory/internal/util"

	"github.com/gin-gonic/gin"
)

type transactionReq struct {
	ArticleID *util.FlexInt `json:"article_id"`
	EventID   *util.FlexInt `json:"event_id"`
	Type      string        `json:"type"` // buy / sell
	Quantity  *util.FlexInt `json:"quantity"`
}

func (r transactionReq) input() (inventory.RecordInput, error) {
	articleID, err := requireID("article_id", r.ArticleID)
	if err != nil {
		return inventory.RecordInput{}, err
	}
	eventID, err := requireID("event_id", r.EventID)
	if err != nil {
		return inventory.RecordInput{}, err
	}
	qty, err := requireInt("quantity", r.Quantity)
	if err != nil {
		return inventory.RecordInput{}, err
	}
	return inventory.RecordInput{
		ArticleID: articleID,
		EventID:   eventID,
		Type:      strings.TrimSpace(r.Type),
		Quantity:  qty,
	}, nil
}

// RecordTransaction appends a buy or sell to the ledger.
func (h *InventoryHandler) RecordTransaction(c *gin.Context) {
	var req transactionReq
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		h.fail(c, err)
		return
	}

	tx, err := h.Svc.RecordTransaction(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	util.Created(c, util.Response{"transaction": tx})
}

func (h *InventoryHandler) ListEventTransactions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	txs, err := h.Svc.ListEventTransactions(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	util.Success(c, util.Response{"transactions": txs})
}
