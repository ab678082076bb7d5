package handler

import (
	"net/http"
	"time"

	"finance-ledger/internal/datecycle"
	"finance-ledger/internal/ledger"
	"finance-ledger/internal/models"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// TransactionHandler 负责收支记录相关接口
type TransactionHandler struct {
	Svc *ledger.Service
}

func NewTransactionHandler(svc *ledger.Service) *TransactionHandler {
	return &TransactionHandler{Svc: svc}
}

// ---------- 请求/响应结构 ----------

type transactionReq struct {
	Description string `json:"description" binding:"max=255"`
	Amount      string `json:"amount" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=income expense"`
	CategoryID  *uint  `json:"category_id"`
	AccountID   *uint  `json:"account_id"`
	GoalID      *uint  `json:"goal_id"`
}

func (r transactionReq) input() ledger.TransactionInput {
	return ledger.TransactionInput{
		Description: r.Description,
		Amount:      r.Amount,
		Date:        r.Date,
		Type:        r.Type,
		CategoryID:  r.CategoryID,
		AccountID:   r.AccountID,
		GoalID:      r.GoalID,
	}
}

type transactionResp struct {
	ID          uint           `json:"id"`
	Description string         `json:"description"`
	AmountCent  int64          `json:"amount_cent"` // 分
	Amount      string         `json:"amount"`      // 元
	Date        datecycle.Date `json:"date"`
	Type        string         `json:"type"`
	CategoryID  *uint          `json:"category_id"`
	AccountID   *uint          `json:"account_id"`
	GoalID      *uint          `json:"goal_id"`
	CreatedAt   time.Time      `json:"created_at"`
}

func toTransactionResp(t *models.Transaction) transactionResp {
	return transactionResp{
		ID:          t.ID,
		Description: t.Description,
		AmountCent:  t.AmountCent,
		Amount:      amount(t.AmountCent),
		Date:        t.Date,
		Type:        t.Type,
		CategoryID:  t.CategoryID,
		AccountID:   t.AccountID,
		GoalID:      t.GoalID,
		CreatedAt:   t.CreatedAt,
	}
}

// ---------- 记一笔 ----------

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req transactionReq
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.Svc.CreateTransaction(c.Request.Context(), user.ID, req.input())
	if err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"transaction": toTransactionResp(t)})
}

// UpdateTransaction 修改一条记录，余额/预算/目标同步调整
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transactionReq
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.Svc.EditTransaction(c.Request.Context(), user.ID, id, req.input())
	if err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"transaction": toTransactionResp(t)})
}

// DeleteTransaction 删除记录并回滚其影响
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteTransaction(c.Request.Context(), user.ID, id); err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"deleted": id})
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, err := h.Svc.GetTransaction(c.Request.Context(), user.ID, id)
	if err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"transaction": toTransactionResp(t)})
}

// ListTransactions 按时间倒序列出记录，支持 from/to/type/category_id/account_id 筛选
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var (
		f   ledger.TransactionFilter
		err error
	)
	if f.From, err = util.ParseOptionalDate(c.Query("from")); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "开始日期格式错误")
		return
	}
	if f.To, err = util.ParseOptionalDate(c.Query("to")); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "结束日期格式错误")
		return
	}
	if f.CategoryID, err = util.ParseOptionalID(c.Query("category_id")); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "分类 ID 无效")
		return
	}
	if f.AccountID, err = util.ParseOptionalID(c.Query("account_id")); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "账户 ID 无效")
		return
	}
	switch typ := c.Query("type"); typ {
	case "", models.TypeIncome, models.TypeExpense:
		f.Type = typ
	default:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "类型只能是 income 或 expense")
		return
	}

	list, err := h.Svc.ListTransactions(c.Request.Context(), user.ID, f)
	if err != nil {
		failWith(c, err)
		return
	}
	out := make([]transactionResp, 0, len(list))
	for i := range list {
		out = append(out, toTransactionResp(&list[i]))
	}
	util.Success(c, util.Response{"transactions": out})
}
