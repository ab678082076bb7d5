package ledger

import (
	"testing"

	"finance-ledger/internal/models"

	"github.com/alecthomas/assert/v2"
)

func TestPayBillPostsExpense(t *testing.T) {
	f := setup(t)
	a := f.account("Checking", "500")
	util := f.category("Utilities", "expense")
	bud := f.budget(util.ID, "2024-03", "200")
	b, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{Description: "Power", Amount: "120", DueDate: "2024-03-20", CategoryID: ptr(util.ID), AccountID: ptr(a.ID)}, day("2024-03-01"))
	assert.NoError(t, err)
	assert.Equal(t, models.BillPending, b.Status)
	assert.Equal(t, models.Standalone, b.Role())

	paid, err := f.svc.PayBill(f.ctx, f.owner, b.ID, nil, day("2024-03-05"))
	assert.NoError(t, err)
	assert.Equal(t, models.BillPaid, paid.Status)
	assert.True(t, paid.PaymentTransactionID != nil)

	tx, err := f.svc.GetTransaction(f.ctx, f.owner, *paid.PaymentTransactionID)
	assert.NoError(t, err)
	assert.Equal(t, "2024-03-05", tx.Date.String())
	assert.Equal(t, models.TypeExpense, tx.Type)
	assert.Equal(t, util.ID, *tx.CategoryID)
	assert.Equal(t, "Power", tx.Description)
	assert.Equal(t, "380.00", f.balance(a.ID))
	assert.Equal(t, "120.00", f.spent(bud.ID))

	_, err = f.svc.PayBill(f.ctx, f.owner, b.ID, nil, day("2024-03-06"))
	isErr(t, err, ErrAlreadyPaid)
	assert.Equal(t, "380.00", f.balance(a.ID))
	assert.Equal(t, int64(1), f.count(&models.Transaction{}, "1 = 1"))
}

func TestPayBillInsufficientFunds(t *testing.T) {
	f := setup(t)
	a := f.account("Checking", "50")
	b, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{Description: "Power", Amount: "100", DueDate: "2024-03-20"}, day("2024-03-01"))
	assert.NoError(t, err)

	_, err = f.svc.PayBill(f.ctx, f.owner, b.ID, ptr(a.ID), day("2024-03-05"))
	isErr(t, err, ErrInsufficientFunds)
	assert.Equal(t, models.BillPending, f.bill(b.ID).Status)
	assert.Equal(t, "50.00", f.balance(a.ID))
	assert.Equal(t, int64(0), f.count(&models.Transaction{}, "1 = 1"))
}

func TestPayBillAccountNotFound(t *testing.T) {
	f := setup(t)
	theirs, err := f.svc.CreateAccount(f.ctx, f.other, "Theirs", "1000")
	assert.NoError(t, err)
	b, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{Description: "Power", Amount: "10", DueDate: "2024-03-20"}, day("2024-03-01"))
	assert.NoError(t, err)

	_, err = f.svc.PayBill(f.ctx, f.owner, b.ID, nil, day("2024-03-05"))
	isErr(t, err, ErrAccountNotFound)
	isErr(t, err, ErrNotFound)

	_, err = f.svc.PayBill(f.ctx, f.owner, b.ID, ptr(theirs.ID), day("2024-03-05"))
	isErr(t, err, ErrAccountNotFound)
	assert.Equal(t, "1000.00", f.balance(theirs.ID))
}

func TestPayBillCategoryFallback(t *testing.T) {
	f := setup(t)
	a := f.account("Checking", "1000")
	pay := func() *models.Transaction {
		t.Helper()
		b, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{Description: "Misc", Amount: "1", DueDate: "2024-03-20"}, day("2024-03-01"))
		assert.NoError(t, err)
		paid, err := f.svc.PayBill(f.ctx, f.owner, b.ID, ptr(a.ID), day("2024-03-01"))
		assert.NoError(t, err)
		tx, err := f.svc.GetTransaction(f.ctx, f.owner, *paid.PaymentTransactionID)
		assert.NoError(t, err)
		return tx
	}

	assert.True(t, pay().CategoryID == nil)

	other := f.category(CategoryOtherExpenses, "expense")
	assert.Equal(t, other.ID, *pay().CategoryID)

	fixed := f.category(CategoryFixedBills, "expense")
	assert.Equal(t, fixed.ID, *pay().CategoryID)
}

func TestDeleteTransactionKeepsBillPaid(t *testing.T) {
	f := setup(t)
	a := f.account("Checking", "100")
	b, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{Description: "Power", Amount: "40", DueDate: "2024-03-20", AccountID: ptr(a.ID)}, day("2024-03-01"))
	assert.NoError(t, err)
	paid, err := f.svc.PayBill(f.ctx, f.owner, b.ID, nil, day("2024-03-01"))
	assert.NoError(t, err)

	assert.NoError(t, f.svc.DeleteTransaction(f.ctx, f.owner, *paid.PaymentTransactionID))
	got := f.bill(b.ID)
	assert.Equal(t, models.BillPaid, got.Status)
	assert.True(t, got.PaymentTransactionID == nil)
	assert.Equal(t, "100.00", f.balance(a.ID))
}

func TestDeletePaidBillReversesPayment(t *testing.T) {
	f := setup(t)
	a := f.account("Checking", "100")
	b, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{Description: "Power", Amount: "40", DueDate: "2024-03-20", AccountID: ptr(a.ID)}, day("2024-03-01"))
	assert.NoError(t, err)
	_, err = f.svc.PayBill(f.ctx, f.owner, b.ID, nil, day("2024-03-01"))
	assert.NoError(t, err)
	assert.Equal(t, "60.00", f.balance(a.ID))

	assert.NoError(t, f.svc.DeleteBill(f.ctx, f.owner, b.ID))
	assert.Equal(t, "100.00", f.balance(a.ID))
	assert.Equal(t, int64(0), f.count(&models.Transaction{}, "1 = 1"))
	assert.Equal(t, int64(0), f.count(&models.Bill{}, "1 = 1"))
}

func TestDeleteMasterRemovesSeries(t *testing.T) {
	f := setup(t)
	a := f.account("Checking", "5000")
	m, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{
		Description: "Rent",
		Amount:      "1000",
		DueDate:     "2024-01-01",
		AccountID:   ptr(a.ID),
		Recurrence:  &RecurrenceInput{Frequency: "monthly"},
	}, day("2024-01-01"))
	assert.NoError(t, err)
	first := f.children(m.ID)[0]
	_, err = f.svc.PayBill(f.ctx, f.owner, first.ID, nil, day("2024-01-01"))
	assert.NoError(t, err)

	assert.NoError(t, f.svc.DeleteBill(f.ctx, f.owner, m.ID))
	assert.Equal(t, int64(0), f.count(&models.Bill{}, "1 = 1"))
	// the payment stays as history
	assert.Equal(t, int64(1), f.count(&models.Transaction{}, "1 = 1"))
	assert.Equal(t, "4000.00", f.balance(a.ID))
}

func TestDeleteOccurrenceCancelsSeries(t *testing.T) {
	f := setup(t)
	m, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{
		Description: "Rent",
		Amount:      "1000",
		DueDate:     "2024-01-01",
		Recurrence:  &RecurrenceInput{Frequency: "monthly"},
	}, day("2024-01-01"))
	assert.NoError(t, err)
	third := f.children(m.ID)[2]

	assert.NoError(t, f.svc.DeleteBill(f.ctx, f.owner, third.ID))
	assert.Equal(t, int64(0), f.count(&models.Bill{}, "parent_id = ?", m.ID))
	got := f.bill(m.ID)
	assert.Equal(t, models.Standalone, got.Role())
	assert.False(t, got.IsActive)
	assert.True(t, got.NextDueDate == nil)
}

func TestDeleteOccurrenceOfFinishedSeries(t *testing.T) {
	f := setup(t)
	a := f.account("Checking", "5000")
	m, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{
		Description: "Laptop",
		Amount:      "1000",
		DueDate:     "2024-01-15",
		AccountID:   ptr(a.ID),
		Recurrence:  &RecurrenceInput{Frequency: "installments", TotalOccurrences: 3},
	}, day("2024-01-01"))
	assert.NoError(t, err)
	assert.False(t, f.bill(m.ID).IsActive)

	kids := f.children(m.ID)
	_, err = f.svc.PayBill(f.ctx, f.owner, kids[0].ID, nil, day("2024-01-15"))
	assert.NoError(t, err)

	assert.NoError(t, f.svc.DeleteBill(f.ctx, f.owner, kids[2].ID))
	left := f.children(m.ID)
	assert.Equal(t, 2, len(left))
	assert.Equal(t, kids[0].ID, left[0].ID)
	assert.Equal(t, models.BillPaid, left[0].Status)
	assert.True(t, left[0].PaymentTransactionID != nil)
	master := f.bill(m.ID)
	assert.Equal(t, models.Master, master.Role())
	assert.Equal(t, "4000.00", f.balance(a.ID))
}

func TestBillsFailClosedForOtherOwners(t *testing.T) {
	f := setup(t)
	a := f.account("Checking", "100")
	b, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{Description: "Power", Amount: "10", DueDate: "2024-03-20", AccountID: ptr(a.ID)}, day("2024-03-01"))
	assert.NoError(t, err)

	_, err = f.svc.PayBill(f.ctx, f.other, b.ID, nil, day("2024-03-01"))
	isErr(t, err, ErrNotFound)
	_, err = f.svc.RescheduleBill(f.ctx, f.other, b.ID, "2024-04-01", day("2024-03-01"))
	isErr(t, err, ErrNotFound)
	_, err = f.svc.EditBill(f.ctx, f.other, b.ID, BillInput{Description: "Mine now", Amount: "1", DueDate: "2024-03-20"}, day("2024-03-01"))
	isErr(t, err, ErrNotFound)
	isErr(t, f.svc.DeleteBill(f.ctx, f.other, b.ID), ErrNotFound)

	got := f.bill(b.ID)
	assert.Equal(t, models.BillPending, got.Status)
	assert.Equal(t, "Power", got.Description)
	assert.Equal(t, "2024-03-20", got.DueDate.String())
	assert.Equal(t, "100.00", f.balance(a.ID))
	assert.Equal(t, int64(0), f.count(&models.Transaction{}, "1 = 1"))
}

func TestRescheduleBill(t *testing.T) {
	f := setup(t)
	a := f.account("Checking", "100")
	b, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{Description: "Power", Amount: "10", DueDate: "2024-03-20", AccountID: ptr(a.ID)}, day("2024-03-01"))
	assert.NoError(t, err)

	got, err := f.svc.RescheduleBill(f.ctx, f.owner, b.ID, "2024-02-20", day("2024-03-01"))
	assert.NoError(t, err)
	assert.Equal(t, models.BillOverdue, got.Status)
	assert.Equal(t, "2024-02-20", f.bill(b.ID).DueDate.String())

	got, err = f.svc.RescheduleBill(f.ctx, f.owner, b.ID, "2024-03-01", day("2024-03-01"))
	assert.NoError(t, err)
	assert.Equal(t, models.BillPending, got.Status)

	_, err = f.svc.RescheduleBill(f.ctx, f.owner, b.ID, "2024-13-01", day("2024-03-01"))
	isErr(t, err, ErrValidation)

	_, err = f.svc.PayBill(f.ctx, f.owner, b.ID, nil, day("2024-03-01"))
	assert.NoError(t, err)
	_, err = f.svc.RescheduleBill(f.ctx, f.owner, b.ID, "2024-04-01", day("2024-03-01"))
	isErr(t, err, ErrAlreadyPaid)
}

func TestEditBillConvertsBetweenRoles(t *testing.T) {
	f := setup(t)
	a := f.account("Checking", "5000")
	b, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{Description: "Phone", Amount: "20", DueDate: "2024-01-05", AccountID: ptr(a.ID)}, day("2024-01-01"))
	assert.NoError(t, err)

	in := BillInput{
		Description: "Phone",
		Amount:      "25",
		DueDate:     "2024-01-05",
		AccountID:   ptr(a.ID),
		Recurrence:  &RecurrenceInput{Frequency: "monthly", TotalOccurrences: 3},
	}
	m, err := f.svc.EditBill(f.ctx, f.owner, b.ID, in, day("2024-01-01"))
	assert.NoError(t, err)
	assert.Equal(t, models.Master, m.Role())
	kids := f.children(b.ID)
	assert.Equal(t, []string{"2024-01-05", "2024-02-05", "2024-03-05"}, dueDates(kids))
	assert.Equal(t, int64(2500), kids[0].AmountCent)

	_, err = f.svc.EditBill(f.ctx, f.owner, kids[1].ID, in, day("2024-01-01"))
	isErr(t, err, ErrValidation)

	_, err = f.svc.PayBill(f.ctx, f.owner, kids[0].ID, nil, day("2024-01-05"))
	assert.NoError(t, err)

	in.Recurrence = nil
	s, err := f.svc.EditBill(f.ctx, f.owner, b.ID, in, day("2024-01-10"))
	assert.NoError(t, err)
	assert.Equal(t, models.Standalone, s.Role())
	left := f.children(b.ID)
	assert.Equal(t, 1, len(left))
	assert.Equal(t, models.BillPaid, left[0].Status)
}

func TestEditMasterReexpandsOnlyWhenActive(t *testing.T) {
	f := setup(t)
	m, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{
		Description: "Rent",
		Amount:      "1000",
		DueDate:     "2024-01-01",
		Recurrence:  &RecurrenceInput{Frequency: "monthly"},
	}, day("2024-01-01"))
	assert.NoError(t, err)

	_, err = f.svc.EditBill(f.ctx, f.owner, m.ID, BillInput{
		Description: "Rent",
		Amount:      "1000",
		DueDate:     "2024-01-01",
		Recurrence:  &RecurrenceInput{Frequency: "weekly"},
	}, day("2024-01-01"))
	assert.NoError(t, err)
	kids := f.children(m.ID)
	assert.Equal(t, DefaultHorizon, len(kids))
	assert.Equal(t, "2024-01-08", kids[1].DueDate.String())
}

func TestListBillsFilter(t *testing.T) {
	f := setup(t)
	m, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{
		Description: "Loan",
		Amount:      "10",
		DueDate:     "2024-01-01",
		Recurrence:  &RecurrenceInput{Frequency: "installments", TotalOccurrences: 4},
	}, day("2024-02-15"))
	assert.NoError(t, err)

	overdue, err := f.svc.ListBills(f.ctx, f.owner, BillFilter{Status: models.BillOverdue, ParentID: ptr(m.ID)})
	assert.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01", "2024-02-01"}, dueDates(overdue))

	march, err := f.svc.ListBills(f.ctx, f.owner, BillFilter{From: day("2024-03-01"), To: day("2024-03-31")})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(march))

	none, err := f.svc.ListBills(f.ctx, f.other, BillFilter{})
	assert.NoError(t, err)
	assert.Equal(t, 0, len(none))
}
