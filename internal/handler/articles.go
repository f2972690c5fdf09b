package handler

import (
	"event-inventory/internal/inventory"
	"event-inventory/internal/util"

	"github.com/gin-gonic/gin"
)

// ---------- request ----------

type articleReq struct {
	Name            string        `json:"name"`
	Category        string        `json:"category"`
	Price           *util.FlexInt `json:"price"`
	InitialQuantity *util.FlexInt `json:"initial_quantity"`
}

func (r articleReq) input() (inventory.ArticleInput, error) {
	price, err := requireInt("price", r.Price)
	if err != nil {
		return inventory.ArticleInput{}, err
	}
	initial, err := requireInt("initial_quantity", r.InitialQuantity)
	if err != nil {
		return inventory.ArticleInput{}, err
	}
	return inventory.ArticleInput{
		Name:            r.Name,
		Category:        r.Category,
		Price:           price,
		InitialQuantity: initial,
	}, nil
}

// ListArticles returns every article with its current stock.
func (h *InventoryHandler) ListArticles(c *gin.Context) {
	articles, err := h.Svc.ListArticlesWithStock(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	util.Success(c, util.Response{"articles": articles})
}

func (h *InventoryHandler) CreateArticle(c *gin.Context) {
	var req articleReq
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		h.fail(c, err)
		return
	}

	article, err := h.Svc.AddArticle(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	util.Created(c, util.Response{"article": article})
}

// UpdateArticle replaces every editable field of the article.
func (h *InventoryHandler) UpdateArticle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req articleReq
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		h.fail(c, err)
		return
	}

	article, err := h.Svc.EditArticle(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	util.Success(c, util.Response{"article": article})
}

// DeleteArticle removes the article and its whole ledger.
func (h *InventoryHandler) DeleteArticle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteArticle(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	util.Success(c, util.Response{"id": id})
}

func (h *InventoryHandler) GetStock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	stock, err := h.Svc.ComputeStock(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	util.Success(c, util.Response{"article_id": id, "stock": stock})
}
