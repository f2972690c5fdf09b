package handler

import (
	"errors"
	"net/http"

	"event-inventory/internal/inventory"
	"event-inventory/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// InventoryHandler exposes the inventory service over JSON.
type InventoryHandler struct {
	Svc    *inventory.Service
	Logger zerolog.Logger
}

func NewInventoryHandler(svc *inventory.Service, logger zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{
		Svc:    svc,
		Logger: logger.With().Str("component", "http").Logger(),
	}
}

// fail maps a service error onto the response envelope. Only unexpected
// errors are logged; domain errors are the caller's business.
func (h *InventoryHandler) fail(c *gin.Context, err error) {
	respondErr(c, h.Logger, err)
}

func respondErr(c *gin.Context, logger zerolog.Logger, err error) {
	var short *inventory.InsufficientStockError
	switch {
	case errors.As(err, &short):
		util.ErrorWith(c, http.StatusConflict, util.CodeConflict, err.Error(), gin.H{
			"article_id": short.ArticleID,
			"available":  short.Available,
			"requested":  short.Requested,
		})
	case errors.Is(err, inventory.ErrInsufficientStock):
		util.Error(c, http.StatusConflict, util.CodeConflict, err.Error())
	case inventory.IsValidation(err):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case errors.Is(err, inventory.ErrUnknownReference):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
	default:
		_ = c.Error(err)
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
	}
}

// bindJSON decodes the body; decode failures (including a non-integer in a
// numeric field) are validation errors.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// pathID parses the :id path parameter, answering 400 on failure.
func pathID(c *gin.Context) (uint, bool) {
	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return 0, false
	}
	return id, true
}

// requireInt reports a missing numeric field as a validation error.
func requireInt(field string, v *util.FlexInt) (int64, error) {
	if v == nil {
		return 0, inventory.NewValidationError(field, "is required")
	}
	return v.Int64(), nil
}

// requireID is requireInt for references; ids are positive.
func requireID(field string, v *util.FlexInt) (uint, error) {
	n, err := requireInt(field, v)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, inventory.NewValidationError(field, "must be a positive id")
	}
	return uint(n), nil
}
