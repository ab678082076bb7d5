package ledger

import (
	"testing"

	"finance-ledger/internal/models"

	"github.com/alecthomas/assert/v2"
)

func TestTransferFunds(t *testing.T) {
	f := setup(t)
	src := f.account("Checking", "300")
	dst := f.account("Savings", "0")

	tr, err := f.svc.TransferFunds(f.ctx, f.owner, src.ID, dst.ID, "120.50", day("2024-05-01"))
	assert.NoError(t, err)
	assert.Equal(t, "179.50", f.balance(src.ID))
	assert.Equal(t, "120.50", f.balance(dst.ID))
	assert.Equal(t, models.TypeExpense, tr.Out.Type)
	assert.Equal(t, models.TypeIncome, tr.In.Type)
	assert.True(t, tr.Out.CategoryID == nil)
	assert.Equal(t, "Transfer to Savings", tr.Out.Description)

	_, err = f.svc.TransferFunds(f.ctx, f.owner, src.ID, dst.ID, "1000", day("2024-05-01"))
	isErr(t, err, ErrInsufficientFunds)
	_, err = f.svc.TransferFunds(f.ctx, f.owner, src.ID, src.ID, "1", day("2024-05-01"))
	isErr(t, err, ErrValidation)
	_, err = f.svc.TransferFunds(f.ctx, f.owner, src.ID, dst.ID, "0", day("2024-05-01"))
	isErr(t, err, ErrValidation)
	assert.Equal(t, "179.50", f.balance(src.ID))
	assert.Equal(t, int64(2), f.count(&models.Transaction{}, "1 = 1"))
}

func TestTransferToForeignAccount(t *testing.T) {
	f := setup(t)
	src := f.account("Checking", "300")
	theirs, err := f.svc.CreateAccount(f.ctx, f.other, "Theirs", "0")
	assert.NoError(t, err)

	_, err = f.svc.TransferFunds(f.ctx, f.owner, src.ID, theirs.ID, "10", day("2024-05-01"))
	isErr(t, err, ErrNotFound)
	assert.Equal(t, "300.00", f.balance(src.ID))
	assert.Equal(t, "0.00", f.balance(theirs.ID))
}

func TestAccountNames(t *testing.T) {
	f := setup(t)
	a := f.account("Checking", "")
	_, err := f.svc.CreateAccount(f.ctx, f.owner, " Checking ", "1")
	isErr(t, err, ErrDuplicateName)
	_, err = f.svc.CreateAccount(f.ctx, f.other, "Checking", "1")
	assert.NoError(t, err)
	_, err = f.svc.CreateAccount(f.ctx, f.owner, "Cash", "1.234")
	isErr(t, err, ErrValidation)

	b := f.account("Cash", "")
	_, err = f.svc.RenameAccount(f.ctx, f.owner, b.ID, "Checking")
	isErr(t, err, ErrDuplicateName)
	got, err := f.svc.RenameAccount(f.ctx, f.owner, a.ID, "Main")
	assert.NoError(t, err)
	assert.Equal(t, "Main", got.Name)

	all, err := f.svc.ListAccounts(f.ctx, f.owner)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(all))
	assert.Equal(t, "Cash", all[0].Name)
}

func TestDeleteAccountDetachesReferences(t *testing.T) {
	f := setup(t)
	a := f.account("Checking", "100")
	tx := f.txn(TransactionInput{Amount: "10", Date: "2024-01-01", Type: "expense", AccountID: ptr(a.ID)})
	b, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{Description: "Power", Amount: "5", DueDate: "2024-01-10", AccountID: ptr(a.ID)}, day("2024-01-01"))
	assert.NoError(t, err)

	assert.NoError(t, f.svc.DeleteAccount(f.ctx, f.owner, a.ID))
	got, err := f.svc.GetTransaction(f.ctx, f.owner, tx.ID)
	assert.NoError(t, err)
	assert.True(t, got.AccountID == nil)
	assert.True(t, f.bill(b.ID).AccountID == nil)

	isErr(t, f.svc.DeleteAccount(f.ctx, f.owner, a.ID), ErrNotFound)
}

func TestCategories(t *testing.T) {
	f := setup(t)
	food := f.category("Food", "expense")
	f.category("Food", "income")
	_, err := f.svc.CreateCategory(f.ctx, f.owner, "Food", "expense")
	isErr(t, err, ErrDuplicateName)
	_, err = f.svc.CreateCategory(f.ctx, f.owner, "Food", "gift")
	isErr(t, err, ErrValidation)

	expenses, err := f.svc.ListCategories(f.ctx, f.owner, "expense")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(expenses))

	bud := f.budget(food.ID, "2024-01", "100")
	tx := f.txn(TransactionInput{Amount: "10", Date: "2024-01-01", Type: "expense", CategoryID: ptr(food.ID)})
	assert.NoError(t, f.svc.DeleteCategory(f.ctx, f.owner, food.ID))
	assert.Equal(t, int64(0), f.count(&models.Budget{}, "id = ?", bud.ID))
	got, err := f.svc.GetTransaction(f.ctx, f.owner, tx.ID)
	assert.NoError(t, err)
	assert.True(t, got.CategoryID == nil)
}

func TestBudgets(t *testing.T) {
	f := setup(t)
	food := f.category("Food", "expense")
	salary := f.category("Salary", "income")
	f.txn(TransactionInput{Amount: "12", Date: "2024-02-03", Type: "expense", CategoryID: ptr(food.ID)})
	f.txn(TransactionInput{Amount: "8", Date: "2024-02-29", Type: "expense", CategoryID: ptr(food.ID)})
	f.txn(TransactionInput{Amount: "99", Date: "2024-03-01", Type: "expense", CategoryID: ptr(food.ID)})

	b := f.budget(food.ID, "2024-02", "300")
	assert.Equal(t, "20.00", f.spent(b.ID))

	_, err := f.svc.CreateBudget(f.ctx, f.owner, BudgetInput{CategoryID: food.ID, Month: "2024-02", Amount: "1"})
	isErr(t, err, ErrDuplicateName)
	_, err = f.svc.CreateBudget(f.ctx, f.owner, BudgetInput{CategoryID: salary.ID, Month: "2024-02", Amount: "1"})
	isErr(t, err, ErrValidation)
	_, err = f.svc.CreateBudget(f.ctx, f.owner, BudgetInput{CategoryID: food.ID, Month: "2024-2", Amount: "1"})
	isErr(t, err, ErrValidation)
	_, err = f.svc.CreateBudget(f.ctx, f.owner, BudgetInput{CategoryID: food.ID, Month: "2024-04", Amount: "0"})
	isErr(t, err, ErrValidation)

	moved, err := f.svc.EditBudget(f.ctx, f.owner, b.ID, BudgetInput{CategoryID: food.ID, Month: "2024-03", Amount: "300"})
	assert.NoError(t, err)
	assert.Equal(t, int64(9900), moved.SpentCent)

	// drift is repaired on listing
	assert.NoError(t, f.db.Model(&models.Budget{}).Where("id = ?", b.ID).Update("spent_cent", 1).Error)
	list, err := f.svc.ListBudgets(f.ctx, f.owner, "2024-03")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(list))
	assert.Equal(t, int64(9900), list[0].SpentCent)
	assert.Equal(t, "99.00", f.spent(b.ID))

	assert.NoError(t, f.svc.DeleteBudget(f.ctx, f.owner, b.ID))
	isErr(t, f.svc.DeleteBudget(f.ctx, f.owner, b.ID), ErrNotFound)
}

func TestUsers(t *testing.T) {
	f := setup(t)
	_, err := f.svc.CreateUser(f.ctx, "alice", "Again")
	isErr(t, err, ErrDuplicateName)
	u, err := f.svc.GetUser(f.ctx, f.owner)
	assert.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	_, err = f.svc.GetUser(f.ctx, 999)
	isErr(t, err, ErrNotFound)

	_, err = f.svc.ListAccounts(f.ctx, 0)
	isErr(t, err, ErrNotFound)
}
