package handler

import (
	"context"
	"net/http"
	"time"

	"event-inventory/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Health answers 200 while the database is reachable. It backs the consul
// HTTP check.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			util.Error(c, http.StatusServiceUnavailable, util.CodeServerErr, "database unavailable")
			return
		}
		util.Success(c, util.Response{"status": "ok"})
	}
}
