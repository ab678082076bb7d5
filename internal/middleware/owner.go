package middleware

import (
	"errors"
	"net/http"
	"strings"

	"finance-ledger/internal/ledger"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// OwnerHeader carries the id of the authenticated owner, set by the
// authentication proxy in front of the API.
const OwnerHeader = "X-Owner-ID"

// OwnerMiddleware 解析 X-Owner-ID，并在 context 里放入当前用户。
// 缺失或无效时直接拒绝。
func OwnerMiddleware(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(OwnerHeader))
		if raw == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
			c.Abort()
			return
		}
		id, err := util.ParseID(raw)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "身份无效")
			c.Abort()
			return
		}

		user, err := svc.GetUser(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "用户不存在")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询用户失败")
			}
			c.Abort()
			return
		}

		c.Set("currentUser", user)
		c.Next()
	}
}
