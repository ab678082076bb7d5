package handler

import (
	"net/http"
	"time"

	"finance-ledger/internal/ledger"
	"finance-ledger/internal/models"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// AccountHandler 负责账户、分类和转账接口
type AccountHandler struct {
	Svc *ledger.Service
	Loc *time.Location
}

func NewAccountHandler(svc *ledger.Service, loc *time.Location) *AccountHandler {
	return &AccountHandler{Svc: svc, Loc: loc}
}

type accountReq struct {
	Name           string `json:"name" binding:"required,max=64"`
	OpeningBalance string `json:"opening_balance"`
}

type renameAccountReq struct {
	Name string `json:"name" binding:"required,max=64"`
}

type accountResp struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	BalanceCent int64     `json:"balance_cent"`
	Balance     string    `json:"balance"`
	CreatedAt   time.Time `json:"created_at"`
}

func toAccountResp(a *models.Account) accountResp {
	return accountResp{
		ID:          a.ID,
		Name:        a.Name,
		BalanceCent: a.BalanceCent,
		Balance:     amount(a.BalanceCent),
		CreatedAt:   a.CreatedAt,
	}
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req accountReq
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Svc.CreateAccount(c.Request.Context(), user.ID, req.Name, req.OpeningBalance)
	if err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"account": toAccountResp(a)})
}

func (h *AccountHandler) RenameAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req renameAccountReq
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Svc.RenameAccount(c.Request.Context(), user.ID, id, req.Name)
	if err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"account": toAccountResp(a)})
}

// DeleteAccount 删除账户，相关记录和账单解除关联
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteAccount(c.Request.Context(), user.ID, id); err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"deleted": id})
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.Svc.ListAccounts(c.Request.Context(), user.ID)
	if err != nil {
		failWith(c, err)
		return
	}
	out := make([]accountResp, 0, len(list))
	for i := range list {
		out = append(out, toAccountResp(&list[i]))
	}
	util.Success(c, util.Response{"accounts": out})
}

// ---------- 转账 ----------

type transferReq struct {
	SourceAccountID      uint   `json:"source_account_id" binding:"required"`
	DestinationAccountID uint   `json:"destination_account_id" binding:"required"`
	Amount               string `json:"amount" binding:"required"`
}

func (h *AccountHandler) Transfer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	asOf, ok := asOfDate(c, h.Loc)
	if !ok {
		return
	}
	var req transferReq
	if !bindJSON(c, &req) {
		return
	}
	tr, err := h.Svc.TransferFunds(c.Request.Context(), user.ID, req.SourceAccountID, req.DestinationAccountID, req.Amount, asOf)
	if err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{
		"out": toTransactionResp(tr.Out),
		"in":  toTransactionResp(tr.In),
	})
}

// ---------- 分类 ----------

type categoryReq struct {
	Name string `json:"name" binding:"required,max=64"`
	Type string `json:"type" binding:"required,oneof=income expense"`
}

type categoryResp struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func (h *AccountHandler) CreateCategory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req categoryReq
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.Svc.CreateCategory(c.Request.Context(), user.ID, req.Name, req.Type)
	if err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"category": categoryResp{ID: cat.ID, Name: cat.Name, Type: cat.Type}})
}

// DeleteCategory 删除分类，同时删除该分类的预算
func (h *AccountHandler) DeleteCategory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteCategory(c.Request.Context(), user.ID, id); err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"deleted": id})
}

func (h *AccountHandler) ListCategories(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	typ := c.Query("type")
	if typ != "" && typ != models.TypeIncome && typ != models.TypeExpense {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "类型只能是 income 或 expense")
		return
	}
	list, err := h.Svc.ListCategories(c.Request.Context(), user.ID, typ)
	if err != nil {
		failWith(c, err)
		return
	}
	out := make([]categoryResp, 0, len(list))
	for _, cat := range list {
		out = append(out, categoryResp{ID: cat.ID, Name: cat.Name, Type: cat.Type})
	}
	util.Success(c, util.Response{"categories": out})
}
