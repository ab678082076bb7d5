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

// BillHandler 负责账单和周期账单接口
type BillHandler struct {
	Svc *ledger.Service
	Loc *time.Location
}

func NewBillHandler(svc *ledger.Service, loc *time.Location) *BillHandler {
	return &BillHandler{Svc: svc, Loc: loc}
}

type recurrenceReq struct {
	Frequency        string `json:"frequency" binding:"required"`
	StartDate        string `json:"start_date"`
	TotalOccurrences int    `json:"total_occurrences" binding:"min=0"`
}

type billReq struct {
	Description string         `json:"description" binding:"required,max=200"`
	Amount      string         `json:"amount" binding:"required"`
	DueDate     string         `json:"due_date" binding:"required"`
	Type        string         `json:"type" binding:"omitempty,oneof=income expense"`
	CategoryID  *uint          `json:"category_id"`
	AccountID   *uint          `json:"account_id"`
	Recurrence  *recurrenceReq `json:"recurrence"`
}

func (r billReq) input() ledger.BillInput {
	in := ledger.BillInput{
		Description: r.Description,
		Amount:      r.Amount,
		DueDate:     r.DueDate,
		Type:        r.Type,
		CategoryID:  r.CategoryID,
		AccountID:   r.AccountID,
	}
	if r.Recurrence != nil {
		in.Recurrence = &ledger.RecurrenceInput{
			Frequency:        r.Recurrence.Frequency,
			StartDate:        r.Recurrence.StartDate,
			TotalOccurrences: r.Recurrence.TotalOccurrences,
		}
	}
	return in
}

type payBillReq struct {
	AccountID *uint `json:"account_id"` // 不传则用账单自带账户
}

type rescheduleReq struct {
	DueDate string `json:"due_date" binding:"required"`
}

type recurrenceResp struct {
	Frequency        string `json:"frequency"`
	StartDate        string `json:"start_date"`
	NextDueDate      string `json:"next_due_date,omitempty"`
	TotalOccurrences int    `json:"total_occurrences"`
	GeneratedCount   int    `json:"generated_count"`
	Active           bool   `json:"active"`
}

type billResp struct {
	ID                   uint            `json:"id"`
	Role                 string          `json:"role"`
	Description          string          `json:"description"`
	AmountCent           int64           `json:"amount_cent"`
	Amount               string          `json:"amount"`
	DueDate              datecycle.Date  `json:"due_date"`
	Status               string          `json:"status"`
	Type                 string          `json:"type"`
	CategoryID           *uint           `json:"category_id"`
	AccountID            *uint           `json:"account_id"`
	PaymentTransactionID *uint           `json:"payment_transaction_id"`
	ParentID             *uint           `json:"parent_id,omitempty"`
	OccurrenceIndex      int             `json:"occurrence_index,omitempty"`
	Recurrence           *recurrenceResp `json:"recurrence,omitempty"`
}

func toBillResp(b *models.Bill) billResp {
	resp := billResp{
		ID:                   b.ID,
		Role:                 b.Role().String(),
		Description:          b.Description,
		AmountCent:           b.AmountCent,
		Amount:               amount(b.AmountCent),
		DueDate:              b.DueDate,
		Status:               b.Status,
		Type:                 b.Type,
		CategoryID:           b.CategoryID,
		AccountID:            b.AccountID,
		PaymentTransactionID: b.PaymentTransactionID,
	}
	if parent, index, ok := b.Parent(); ok {
		resp.ParentID = &parent
		resp.OccurrenceIndex = index
	}
	if r, ok := b.Recurrence(); ok {
		resp.Recurrence = &recurrenceResp{
			Frequency:        string(r.Frequency),
			StartDate:        r.StartDate.String(),
			NextDueDate:      dateString(r.NextDueDate),
			TotalOccurrences: r.TotalOccurrences,
			GeneratedCount:   r.GeneratedCount,
			Active:           r.Active,
		}
	}
	return resp
}

func (h *BillHandler) CreateBill(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	asOf, ok := asOfDate(c, h.Loc)
	if !ok {
		return
	}
	var req billReq
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.Svc.CreateBill(c.Request.Context(), user.ID, req.input(), asOf)
	if err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"bill": toBillResp(b)})
}

// UpdateBill 修改账单；带 recurrence 会转为周期账单，不带则取消周期
func (h *BillHandler) UpdateBill(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	asOf, ok := asOfDate(c, h.Loc)
	if !ok {
		return
	}
	var req billReq
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.Svc.EditBill(c.Request.Context(), user.ID, id, req.input(), asOf)
	if err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"bill": toBillResp(b)})
}

func (h *BillHandler) DeleteBill(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteBill(c.Request.Context(), user.ID, id); err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"deleted": id})
}

// PayBill 支付账单，生成一笔支出记录
func (h *BillHandler) PayBill(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	asOf, ok := asOfDate(c, h.Loc)
	if !ok {
		return
	}
	var req payBillReq
	// 请求体可以为空
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	b, err := h.Svc.PayBill(c.Request.Context(), user.ID, id, req.AccountID, asOf)
	if err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"bill": toBillResp(b)})
}

func (h *BillHandler) RescheduleBill(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	asOf, ok := asOfDate(c, h.Loc)
	if !ok {
		return
	}
	var req rescheduleReq
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.Svc.RescheduleBill(c.Request.Context(), user.ID, id, req.DueDate, asOf)
	if err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"bill": toBillResp(b)})
}

// ExpandBill 重新生成周期账单的子账单
func (h *BillHandler) ExpandBill(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	asOf, ok := asOfDate(c, h.Loc)
	if !ok {
		return
	}
	b, err := h.Svc.ExpandRecurringBill(c.Request.Context(), user.ID, id, asOf)
	if err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"bill": toBillResp(b)})
}

// ProcessDue 标记逾期并展开到期的周期账单
func (h *BillHandler) ProcessDue(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	asOf, ok := asOfDate(c, h.Loc)
	if !ok {
		return
	}
	n, err := h.Svc.ProcessAllDueMasters(c.Request.Context(), user.ID, asOf)
	if err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"expanded": n, "as_of": asOf})
}

// ListBills 列出账单；查询前先处理到期的周期账单，状态才是最新的
func (h *BillHandler) ListBills(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	asOf, ok := asOfDate(c, h.Loc)
	if !ok {
		return
	}

	var (
		f   ledger.BillFilter
		err error
	)
	switch status := c.Query("status"); status {
	case "", models.BillPending, models.BillPaid, models.BillOverdue:
		f.Status = status
	default:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "状态无效")
		return
	}
	if f.ParentID, err = util.ParseOptionalID(c.Query("parent_id")); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "parent_id 无效")
		return
	}
	if f.From, err = util.ParseOptionalDate(c.Query("from")); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "开始日期格式错误")
		return
	}
	if f.To, err = util.ParseOptionalDate(c.Query("to")); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "结束日期格式错误")
		return
	}

	if _, err := h.Svc.ProcessAllDueMasters(c.Request.Context(), user.ID, asOf); err != nil {
		failWith(c, err)
		return
	}
	list, err := h.Svc.ListBills(c.Request.Context(), user.ID, f)
	if err != nil {
		failWith(c, err)
		return
	}
	out := make([]billResp, 0, len(list))
	for i := range list {
		out = append(out, toBillResp(&list[i]))
	}
	util.Success(c, util.Response{"bills": out})
}
