package handler

import (
	"time"

	"finance-ledger/internal/ledger"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// LogHandler 负责审计日志查询接口
type LogHandler struct {
	Svc *ledger.Service
}

func NewLogHandler(svc *ledger.Service) *LogHandler {
	return &LogHandler{Svc: svc}
}

type logResp struct {
	ID          uint      `json:"id"`
	OperationID string    `json:"operation_id"`
	Operation   string    `json:"operation"`
	EntityType  string    `json:"entity_type"`
	EntityID    uint      `json:"entity_id"`
	Detail      string    `json:"detail"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListLogs 列出当前用户的操作日志（分页，最新在前）
func (h *LogHandler) ListLogs(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	// 分页参数
	page, size := util.ParsePage(c.DefaultQuery("page", "1"), c.DefaultQuery("page_size", "20"))

	rows, total, err := h.Svc.ListAuditLog(c.Request.Context(), user.ID, page, size)
	if err != nil {
		failWith(c, err)
		return
	}
	out := make([]logResp, 0, len(rows))
	for _, r := range rows {
		out = append(out, logResp{
			ID:          r.ID,
			OperationID: r.OperationID,
			Operation:   r.Operation,
			EntityType:  r.EntityType,
			EntityID:    r.EntityID,
			Detail:      r.Detail,
			CreatedAt:   r.CreatedAt,
		})
	}
	util.Page(c, "logs", out, total, page, size)
}
