package handler

import (
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// GetMe 返回当前用户信息（需要经过 OwnerMiddleware）
func GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	util.Success(c, util.Response{
		"user": gin.H{
			"id":           user.ID,
			"username":     user.Username,
			"display_name": user.DisplayName,
			"created_at":   user.CreatedAt,
		},
	})
}
