package middleware

import (
	"errors"
	"net/http"
	"strings"

	"event-inventory/internal/models"
	"event-inventory/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CurrentOperatorKey is the gin context key of the authenticated operator.
const CurrentOperatorKey = "currentOperator"

// AuthMiddleware checks the operator JWT and loads the operator into the
// context. With an empty secret every request passes through.
func AuthMiddleware(jwtSecret, issuer string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSecret == "" {
			c.Next()
			return
		}

		var tokenStr string

		// 1) Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = strings.TrimSpace(parts[1])
			}
		}

		// 2) ?token=xxx, for export downloads opened as plain links
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, issuer, tokenStr)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "token expired or invalid")
			c.Abort()
			return
		}

		var op models.Operator
		if err := db.WithContext(c.Request.Context()).First(&op, claims.OperatorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "operator not found")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "load operator failed")
			}
			c.Abort()
			return
		}

		c.Set(CurrentOperatorKey, &op)
		c.Next()
	}
}

// CurrentOperator returns the operator set by AuthMiddleware, if any.
func CurrentOperator(c *gin.Context) (*models.Operator, bool) {
	v, ok := c.Get(CurrentOperatorKey)
	if !ok {
		return nil, false
	}
	op, ok := v.(*models.Operator)
	return op, ok && op != nil
}
