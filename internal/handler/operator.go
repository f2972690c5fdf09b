package handler

import (
	"net/http"
	"strings"

	"event-inventory/internal/middleware"
	"event-inventory/internal/models"
	"event-inventory/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type updateProfileReq struct {
	DisplayName string `json:"display_name" binding:"max=64"`
}

type changePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func operatorView(op *models.Operator) gin.H {
	return gin.H{
		"id":            op.ID,
		"username":      op.Username,
		"display_name":  op.DisplayName,
		"created_at":    op.CreatedAt,
		"last_login_at": op.LastLoginAt,
	}
}

// currentOperator answers 401 when no operator is authenticated, which is
// always the case with auth disabled.
func currentOperator(c *gin.Context) (*models.Operator, bool) {
	op, ok := middleware.CurrentOperator(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	return op, true
}

// GetMe returns the logged-in operator.
func GetMe(c *gin.Context) {
	op, ok := currentOperator(c)
	if !ok {
		return
	}
	util.Success(c, util.Response{"operator": operatorView(op)})
}

// UpdateProfile changes the operator's display name.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		op, ok := currentOperator(c)
		if !ok {
			return
		}

		var req updateProfileReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
			return
		}
		req.DisplayName = strings.TrimSpace(req.DisplayName)

		if err := db.WithContext(c.Request.Context()).Model(op).
			Update("display_name", req.DisplayName).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "update failed")
			return
		}
		op.DisplayName = req.DisplayName

		util.Success(c, util.Response{"operator": operatorView(op)})
	}
}

// ChangePassword replaces the operator's password after checking the old one.
func ChangePassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		op, ok := currentOperator(c)
		if !ok {
			return
		}

		var req changePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.OldPassword)); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "old password is wrong")
			return
		}
		if !isStrongPassword(req.NewPassword) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "password must be 8-32 characters with upper case, lower case and a digit")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "hash password failed")
			return
		}
		if err := db.WithContext(c.Request.Context()).Model(op).
			Update("password_hash", string(hash)).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "update password failed")
			return
		}

		util.Success(c, util.Response{"message": "password changed, log in again with the new password"})
	}
}
