package router

import (
	"log/slog"
	"net/http"
	"time"

	"finance-ledger/internal/config"
	"finance-ledger/internal/handler"
	"finance-ledger/internal/ledger"
	"finance-ledger/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures the Gin engine and the JSON API.
func SetupRouter(cfg *config.Config, svc *ledger.Service, logger *slog.Logger, loc *time.Location) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ====== API ======
	api := r.Group("/api")

	// 所有接口都需要 X-Owner-ID
	protected := api.Group("")
	protected.Use(middleware.OwnerMiddleware(svc))

	protected.GET("/me", handler.GetMe)

	txHandler := handler.NewTransactionHandler(svc)
	protected.POST("/transactions", txHandler.CreateTransaction)
	protected.GET("/transactions", txHandler.ListTransactions)
	protected.GET("/transactions/:id", txHandler.GetTransaction)
	protected.PUT("/transactions/:id", txHandler.UpdateTransaction)
	protected.DELETE("/transactions/:id", txHandler.DeleteTransaction)

	accountHandler := handler.NewAccountHandler(svc, loc)
	protected.POST("/accounts", accountHandler.CreateAccount)
	protected.GET("/accounts", accountHandler.ListAccounts)
	protected.PUT("/accounts/:id", accountHandler.RenameAccount)
	protected.DELETE("/accounts/:id", accountHandler.DeleteAccount)
	protected.POST("/transfers", accountHandler.Transfer)
	protected.POST("/categories", accountHandler.CreateCategory)
	protected.GET("/categories", accountHandler.ListCategories)
	protected.DELETE("/categories/:id", accountHandler.DeleteCategory)

	budgetHandler := handler.NewBudgetHandler(svc)
	protected.POST("/budgets", budgetHandler.CreateBudget)
	protected.GET("/budgets", budgetHandler.ListBudgets)
	protected.PUT("/budgets/:id", budgetHandler.UpdateBudget)
	protected.DELETE("/budgets/:id", budgetHandler.DeleteBudget)

	goalHandler := handler.NewGoalHandler(svc, loc)
	protected.POST("/goals", goalHandler.CreateGoal)
	protected.GET("/goals", goalHandler.ListGoals)
	protected.PUT("/goals/:id", goalHandler.UpdateGoal)
	protected.DELETE("/goals/:id", goalHandler.DeleteGoal)
	protected.POST("/goals/:id/abandon", goalHandler.AbandonGoal)
	protected.POST("/goals/:id/contributions", goalHandler.Contribute)

	billHandler := handler.NewBillHandler(svc, loc)
	protected.POST("/bills", billHandler.CreateBill)
	protected.GET("/bills", billHandler.ListBills)
	protected.POST("/bills/process", billHandler.ProcessDue)
	protected.PUT("/bills/:id", billHandler.UpdateBill)
	protected.DELETE("/bills/:id", billHandler.DeleteBill)
	protected.POST("/bills/:id/pay", billHandler.PayBill)
	protected.POST("/bills/:id/reschedule", billHandler.RescheduleBill)
	protected.POST("/bills/:id/expand", billHandler.ExpandBill)

	logHandler := handler.NewLogHandler(svc)
	protected.GET("/logs", logHandler.ListLogs)

	return r
}
