package handler

import (
	"time"

	"finance-ledger/internal/ledger"
	"finance-ledger/internal/models"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// GoalHandler 负责储蓄目标接口
type GoalHandler struct {
	Svc *ledger.Service
	Loc *time.Location
}

func NewGoalHandler(svc *ledger.Service, loc *time.Location) *GoalHandler {
	return &GoalHandler{Svc: svc, Loc: loc}
}

type goalReq struct {
	Name    string `json:"name" binding:"required,max=64"`
	Target  string `json:"target" binding:"required"`
	DueDate string `json:"due_date"`
}

func (r goalReq) input() ledger.GoalInput {
	return ledger.GoalInput{Name: r.Name, Target: r.Target, DueDate: r.DueDate}
}

type contributeReq struct {
	AccountID uint   `json:"account_id" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
}

type goalResp struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	TargetCent  int64  `json:"target_cent"`
	Target      string `json:"target"`
	CurrentCent int64  `json:"current_cent"`
	Current     string `json:"current"`
	DueDate     string `json:"due_date,omitempty"`
	Status      string `json:"status"`
}

func toGoalResp(g *models.Goal) goalResp {
	return goalResp{
		ID:          g.ID,
		Name:        g.Name,
		TargetCent:  g.TargetCent,
		Target:      amount(g.TargetCent),
		CurrentCent: g.CurrentCent,
		Current:     amount(g.CurrentCent),
		DueDate:     dateString(g.DueDate),
		Status:      g.Status,
	}
}

func (h *GoalHandler) CreateGoal(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req goalReq
	if !bindJSON(c, &req) {
		return
	}
	g, err := h.Svc.CreateGoal(c.Request.Context(), user.ID, req.input())
	if err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"goal": toGoalResp(g)})
}

func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req goalReq
	if !bindJSON(c, &req) {
		return
	}
	g, err := h.Svc.EditGoal(c.Request.Context(), user.ID, id, req.input())
	if err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"goal": toGoalResp(g)})
}

func (h *GoalHandler) AbandonGoal(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	g, err := h.Svc.AbandonGoal(c.Request.Context(), user.ID, id)
	if err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"goal": toGoalResp(g)})
}

func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteGoal(c.Request.Context(), user.ID, id); err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{"deleted": id})
}

func (h *GoalHandler) ListGoals(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.Svc.ListGoals(c.Request.Context(), user.ID)
	if err != nil {
		failWith(c, err)
		return
	}
	out := make([]goalResp, 0, len(list))
	for i := range list {
		out = append(out, toGoalResp(&list[i]))
	}
	util.Success(c, util.Response{"goals": out})
}

// Contribute 从账户向目标存钱，超出部分自动截断
func (h *GoalHandler) Contribute(c *gin.Context) {
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
	var req contributeReq
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.ContributeToGoal(c.Request.Context(), user.ID, id, req.AccountID, req.Amount, asOf)
	if err != nil {
		failWith(c, err)
		return
	}
	util.Success(c, util.Response{
		"goal":        toGoalResp(res.Goal),
		"transaction": toTransactionResp(res.Transaction),
		"capped":      res.Capped,
	})
}
