package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 通用返回结构里的 data 使用 map
type Response map[string]interface{}

// 业务错误码
const (
	CodeOK                = 0
	CodeInvalidParam      = 40001
	CodeInvalidFrequency  = 40002
	CodeAuth              = 40101
	CodeNotFound          = 40401
	CodeAccountNotFound   = 40402
	CodeDuplicate         = 40901
	CodeAlreadyPaid       = 40902
	CodeInsufficientFunds = 42201
	CodeServerErr         = 50001
)

// Success 统一成功返回
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error 统一错误返回
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// Page 分页列表返回
func Page(c *gin.Context, key string, items interface{}, total int64, page, size int) {
	Success(c, Response{
		key:         items,
		"total":     total,
		"page":      page,
		"page_size": size,
	})
}
