package handler

import (
	"finance-ledger/internal/ledger"
	"finance-ledger/internal/models"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// BudgetHandler 负责月度预算接口
type BudgetHandler struct {
	Svc *ledger.Service
}

func NewBudgetHandler(svc *ledger.Service) *BudgetHandler {
	return &BudgetHandler{Svc: svc}
}

type budgetReq struct {
	CategoryID uint   `json:"category_id" binding:"required"`
	Month      string `json:"month" binding:"required"` // YYYY-MM
	Amount     string `json:"amount" binding:"required"`
}

func (r budgetReq) input() ledger.BudgetInput {
	return ledger.BudgetInput{CategoryID: r.CategoryID, Month: r.Month, Amount: r.Amount}
}

type budgetResp struct {
	ID           uint   `json:"id"`
	CategoryID   uint   `json:"category_id"`
	Month        string `json:"month"`
	BudgetedCent int64  `json:"budgeted_cent"`
	Budgeted     string `json:"budgeted"`
	SpentCent    int64  `json:"spent_cent"`
	Spent        string `json:"spent"`
	Remaining    string `json:"remaining"`
}

func toBudgetResp(b *models.Budget) budgetResp {
	return budgetResp{
		ID:           b.ID,
		CategoryID:   b.CategoryID,
		Month:        b.Month,
		BudgetedCent: b.BudgetedCent,
		Budgeted:     amount(b.BudgetedCent),
		SpentCent:    b.SpentCent,
		Spent:        amount(b.SpentCent),
		Remaining:    amount(b.BudgetedCent - b.SpentCent),
	}
}

func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req budgetReq
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.Svc.CreateBudget(c.Request.Context(), user.ID, req.input())
	if err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"budget": toBudgetResp(b)})
}

func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req budgetReq
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.Svc.EditBudget(c.Request.Context(), user.ID, id, req.input())
	if err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"budget": toBudgetResp(b)})
}

func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteBudget(c.Request.Context(), user.ID, id); err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"deleted": id})
}

// ListBudgets 列出预算（可按 month 筛选），已用金额实时重算
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.Svc.ListBudgets(c.Request.Context(), user.ID, c.Query("month"))
	if err != nil {
		failWith(c, err)
		return
	}
	out := make([]budgetResp, 0, len(list))
	for i := range list {
		out = append(out, toBudgetResp(&list[i]))
	}
	util.Success(c, util.Response{"budgets": out})
}
