package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"finance-ledger/internal/config"
	"finance-ledger/internal/database"
	"finance-ledger/internal/datecycle"
	"finance-ledger/internal/models"
	"finance-ledger/internal/money"

	"github.com/alecthomas/assert/v2"
	"gorm.io/gorm"
)

// fixture bundles a service over a fresh database with two owners.
type fixture struct {
	t     *testing.T
	ctx   context.Context
	db    *gorm.DB
	svc   *Service
	owner uint
	other uint
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "ledger.db")})
	assert.NoError(t, err)
	assert.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &fixture{t: t, ctx: context.Background(), db: db, svc: NewService(db)}
	alice, err := f.svc.CreateUser(f.ctx, "alice", "Alice")
	assert.NoError(t, err)
	bob, err := f.svc.CreateUser(f.ctx, "bob", "Bob")
	assert.NoError(t, err)
	f.owner, f.other = alice.ID, bob.ID
	return f
}

func day(s string) datecycle.Date { return datecycle.MustParse(s) }

func ptr[T any](v T) *T { return &v }

func (f *fixture) account(name, opening string) *models.Account {
	f.t.Helper()
	a, err := f.svc.CreateAccount(f.ctx, f.owner, name, opening)
	assert.NoError(f.t, err)
	return a
}

func (f *fixture) category(name, kind string) *models.Category {
	f.t.Helper()
	c, err := f.svc.CreateCategory(f.ctx, f.owner, name, kind)
	assert.NoError(f.t, err)
	return c
}

func (f *fixture) budget(categoryID uint, month, amount string) *models.Budget {
	f.t.Helper()
	b, err := f.svc.CreateBudget(f.ctx, f.owner, BudgetInput{CategoryID: categoryID, Month: month, Amount: amount})
	assert.NoError(f.t, err)
	return b
}

func (f *fixture) txn(in TransactionInput) *models.Transaction {
	f.t.Helper()
	t, err := f.svc.CreateTransaction(f.ctx, f.owner, in)
	assert.NoError(f.t, err)
	return t
}

// balance reads the stored balance of an account as a decimal string.
func (f *fixture) balance(id uint) string {
	f.t.Helper()
	var a models.Account
	assert.NoError(f.t, f.db.First(&a, id).Error)
	return money.Format(a.BalanceCent)
}

func (f *fixture) spent(id uint) string {
	f.t.Helper()
	var b models.Budget
	assert.NoError(f.t, f.db.First(&b, id).Error)
	return money.Format(b.SpentCent)
}

func (f *fixture) goal(id uint) models.Goal {
	f.t.Helper()
	var g models.Goal
	assert.NoError(f.t, f.db.First(&g, id).Error)
	return g
}

func (f *fixture) bill(id uint) models.Bill {
	f.t.Helper()
	var b models.Bill
	assert.NoError(f.t, f.db.First(&b, id).Error)
	return b
}

func (f *fixture) children(masterID uint) []models.Bill {
	f.t.Helper()
	var out []models.Bill
	assert.NoError(f.t, f.db.Where("parent_id = ?", masterID).Order("occurrence_index ASC").Find(&out).Error)
	return out
}

func (f *fixture) count(model any, query string, args ...any) int64 {
	f.t.Helper()
	var n int64
	assert.NoError(f.t, f.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func isErr(t *testing.T, err, target error) {
	t.Helper()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, target), "want %v, got %v", target, err)
}
