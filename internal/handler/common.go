package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"finance-ledger/internal/datecycle"
	"finance-ledger/internal/ledger"
	"finance-ledger/internal/models"
	"finance-ledger/internal/money"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUser 取出 OwnerMiddleware 放入的用户；没有时直接返回 401
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("currentUser")
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
		return nil, false
	}
	return user, true
}

// asOfDate 返回本次请求的"今天"：?as_of=YYYY-MM-DD，或 loc 时区下的当天
func asOfDate(c *gin.Context, loc *time.Location) (datecycle.Date, bool) {
	if s := strings.TrimSpace(c.Query("as_of")); s != "" {
		d, err := datecycle.Parse(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "as_of 日期格式错误")
			return datecycle.Date{}, false
		}
		return d, true
	}
	return datecycle.Today(loc), true
}

// pathID 解析路径参数 :id
func pathID(c *gin.Context) (uint, bool) {
	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "ID 无效")
		return 0, false
	}
	return id, true
}

// bindJSON 解析请求体，失败时返回 400
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return false
	}
	return true
}

// failWith 把 ledger 的错误映射为 HTTP 状态码和业务码
func failWith(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidFrequency):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidFrequency, "不支持的周期")
	case errors.Is(err, ledger.ErrValidation):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误："+strings.TrimPrefix(err.Error(), ledger.ErrValidation.Error()+": "))
	case errors.Is(err, ledger.ErrAccountNotFound):
		util.Error(c, http.StatusNotFound, util.CodeAccountNotFound, "付款账户不存在")
	case errors.Is(err, ledger.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "记录不存在")
	case errors.Is(err, ledger.ErrDuplicateName):
		util.Error(c, http.StatusConflict, util.CodeDuplicate, "名称已存在")
	case errors.Is(err, ledger.ErrAlreadyPaid):
		util.Error(c, http.StatusConflict, util.CodeAlreadyPaid, "账单已支付")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		util.Error(c, http.StatusUnprocessableEntity, util.CodeInsufficientFunds, "余额不足")
	default:
		_ = c.Error(err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "服务器错误，请重试")
	}
}

// dateString 可选日期转字符串，nil 为空串
func dateString(d *datecycle.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// amount 分转元字符串（两位小数）
func amount(cents int64) string {
	return money.Format(cents)
}
