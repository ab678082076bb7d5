package ledger

import (
	"testing"

	"finance-ledger/internal/datecycle"
	"finance-ledger/internal/models"

	"github.com/alecthomas/assert/v2"
)

func dueDates(bills []models.Bill) []string {
	out := make([]string, len(bills))
	for i, b := range bills {
		out[i] = b.DueDate.String()
	}
	return out
}

func TestExpandClampsMonthEnd(t *testing.T) {
	f := setup(t)
	rent, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{
		Description: "Rent",
		Amount:      "1200",
		DueDate:     "2024-01-31",
		Recurrence:  &RecurrenceInput{Frequency: "monthly"},
	}, day("2024-01-31"))
	assert.NoError(t, err)
	assert.Equal(t, models.Master, rent.Role())

	kids := f.children(rent.ID)
	assert.Equal(t, DefaultHorizon, len(kids))
	assert.Equal(t, []string{
		"2024-01-31", "2024-02-29", "2024-03-31", "2024-04-30",
		"2024-05-31", "2024-06-30", "2024-07-31", "2024-08-31",
		"2024-09-30", "2024-10-31", "2024-11-30", "2024-12-31",
	}, dueDates(kids))
	for i, k := range kids {
		assert.Equal(t, i+1, k.OccurrenceIndex)
		assert.Equal(t, models.BillPending, k.Status)
		assert.Equal(t, "Rent", k.Description)
		assert.Equal(t, models.Occurrence, k.Role())
	}

	m := f.bill(rent.ID)
	assert.Equal(t, "2024-02-29", m.NextDueDate.String())
	assert.Equal(t, DefaultHorizon, m.GeneratedCount)
	assert.True(t, m.IsActive)
}

func TestExpandIsIdempotent(t *testing.T) {
	f := setup(t)
	b, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{
		Description: "Gym",
		Amount:      "30",
		DueDate:     "2024-01-10",
		Recurrence:  &RecurrenceInput{Frequency: "weekly", TotalOccurrences: 0},
	}, day("2024-01-20"))
	assert.NoError(t, err)

	snapshot := func() []string {
		var out []string
		for _, k := range f.children(b.ID) {
			out = append(out, k.DueDate.String()+"|"+k.Status+"|"+k.Description)
		}
		return out
	}
	first := snapshot()
	for i := 0; i < 2; i++ {
		_, err = f.svc.ExpandRecurringBill(f.ctx, f.owner, b.ID, day("2024-01-20"))
		assert.NoError(t, err)
	}
	assert.Equal(t, first, snapshot())
	assert.Equal(t, int64(DefaultHorizon), f.count(&models.Bill{}, "parent_id = ?", b.ID))
	assert.Equal(t, "2024-01-10|overdue|Gym", first[0])
	assert.Equal(t, "2024-01-17|overdue|Gym", first[1])
	assert.Equal(t, "2024-01-24|pending|Gym", first[2])
}

func TestInstallmentsAreNumberedAndDeactivate(t *testing.T) {
	f := setup(t)
	b, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{
		Description: "Laptop",
		Amount:      "333.33",
		DueDate:     "2024-01-15",
		Recurrence:  &RecurrenceInput{Frequency: "installments", TotalOccurrences: 3},
	}, day("2024-01-01"))
	assert.NoError(t, err)

	kids := f.children(b.ID)
	assert.Equal(t, 3, len(kids))
	assert.Equal(t, "Laptop (Installment 1/3)", kids[0].Description)
	assert.Equal(t, "Laptop (Installment 3/3)", kids[2].Description)
	assert.Equal(t, []string{"2024-01-15", "2024-02-15", "2024-03-15"}, dueDates(kids))

	m := f.bill(b.ID)
	assert.False(t, m.IsActive)
	assert.True(t, m.NextDueDate == nil)
	assert.Equal(t, 3, m.GeneratedCount)
}

func TestBoundedMonthlyHasNoSuffix(t *testing.T) {
	f := setup(t)
	b, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{
		Description: "Insurance",
		Amount:      "50",
		DueDate:     "2024-01-05",
		Recurrence:  &RecurrenceInput{Frequency: "yearly", TotalOccurrences: 2},
	}, day("2024-01-01"))
	assert.NoError(t, err)
	kids := f.children(b.ID)
	assert.Equal(t, []string{"2024-01-05", "2025-01-05"}, dueDates(kids))
	assert.Equal(t, "Insurance", kids[1].Description)
}

func TestExpandKeepsPaidOccurrences(t *testing.T) {
	f := setup(t)
	a := f.account("Checking", "5000")
	b, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{
		Description: "Rent",
		Amount:      "1000",
		DueDate:     "2024-01-01",
		AccountID:   ptr(a.ID),
		Recurrence:  &RecurrenceInput{Frequency: "monthly"},
	}, day("2024-01-01"))
	assert.NoError(t, err)

	first := f.children(b.ID)[0]
	paid, err := f.svc.PayBill(f.ctx, f.owner, first.ID, nil, day("2024-01-01"))
	assert.NoError(t, err)
	assert.Equal(t, models.BillPaid, paid.Status)

	kids := f.children(b.ID)
	assert.Equal(t, DefaultHorizon, len(kids))
	assert.Equal(t, first.ID, kids[0].ID)
	assert.Equal(t, models.BillPaid, kids[0].Status)
	assert.True(t, kids[0].PaymentTransactionID != nil)
	for _, k := range kids[1:] {
		assert.Equal(t, models.BillPending, k.Status)
	}
	assert.Equal(t, "4000.00", f.balance(a.ID))
}

func TestExpandRejectsNonMaster(t *testing.T) {
	f := setup(t)
	b, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{Description: "Once", Amount: "1", DueDate: "2024-01-01"}, day("2024-01-01"))
	assert.NoError(t, err)
	_, err = f.svc.ExpandRecurringBill(f.ctx, f.owner, b.ID, day("2024-01-01"))
	isErr(t, err, ErrValidation)
	_, err = f.svc.ExpandRecurringBill(f.ctx, f.other, b.ID, day("2024-01-01"))
	isErr(t, err, ErrNotFound)
}

func TestRecurrenceRequiresAsOf(t *testing.T) {
	f := setup(t)
	_, err := f.svc.ProcessAllDueMasters(f.ctx, f.owner, datecycle.Date{})
	isErr(t, err, ErrValidation)
	_, err = f.svc.ExpandRecurringBill(f.ctx, f.owner, 1, datecycle.Date{})
	isErr(t, err, ErrValidation)
}

func TestUnknownFrequencyIsRejected(t *testing.T) {
	f := setup(t)
	_, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{
		Description: "Rent",
		Amount:      "1",
		DueDate:     "2024-01-01",
		Recurrence:  &RecurrenceInput{Frequency: "fortnightly"},
	}, day("2024-01-01"))
	isErr(t, err, ErrInvalidFrequency)
	assert.Equal(t, int64(0), f.count(&models.Bill{}, "1 = 1"))
}

func TestProcessAllDueMasters(t *testing.T) {
	f := setup(t)
	rent, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{
		Description: "Rent",
		Amount:      "1200",
		DueDate:     "2024-01-31",
		Recurrence:  &RecurrenceInput{Frequency: "monthly"},
	}, day("2024-01-31"))
	assert.NoError(t, err)
	loan, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{
		Description: "Loan",
		Amount:      "100",
		DueDate:     "2024-01-10",
		Recurrence:  &RecurrenceInput{Frequency: "installments", TotalOccurrences: 2},
	}, day("2024-01-31"))
	assert.NoError(t, err)
	theirs, err := f.svc.CreateBill(f.ctx, f.other, BillInput{Description: "Phone", Amount: "20", DueDate: "2024-02-01"}, day("2024-01-31"))
	assert.NoError(t, err)

	// nothing due yet, but January rent is now late
	n, err := f.svc.ProcessAllDueMasters(f.ctx, f.owner, day("2024-02-15"))
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, models.BillOverdue, f.children(rent.ID)[0].Status)
	assert.Equal(t, models.BillPending, f.bill(theirs.ID).Status)

	n, err = f.svc.ProcessAllDueMasters(f.ctx, f.owner, day("2024-03-01"))
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "2024-04-01", f.bill(rent.ID).NextDueDate.String())
	assert.False(t, f.bill(loan.ID).IsActive)
	assert.Equal(t, int64(2), f.count(&models.Bill{}, "parent_id = ?", loan.ID))
}

func TestRescheduledPaidOccurrenceIsNotRebilled(t *testing.T) {
	f := setup(t)
	a := f.account("Checking", "5000")
	m, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{
		Description: "Rent",
		Amount:      "1000",
		DueDate:     "2024-01-10",
		AccountID:   ptr(a.ID),
		Recurrence:  &RecurrenceInput{Frequency: "monthly"},
	}, day("2024-01-01"))
	assert.NoError(t, err)

	first := f.children(m.ID)[0]
	_, err = f.svc.RescheduleBill(f.ctx, f.owner, first.ID, "2024-01-12", day("2024-01-01"))
	assert.NoError(t, err)
	_, err = f.svc.PayBill(f.ctx, f.owner, first.ID, nil, day("2024-01-12"))
	assert.NoError(t, err)

	assert.Equal(t, int64(1), f.count(&models.Bill{}, "parent_id = ? AND occurrence_index = ?", m.ID, 1))
	assert.Equal(t, int64(DefaultHorizon), f.count(&models.Bill{}, "parent_id = ?", m.ID))
	got := f.bill(first.ID)
	assert.Equal(t, models.BillPaid, got.Status)
	assert.Equal(t, "2024-01-12", got.DueDate.String())
	assert.Equal(t, "4000.00", f.balance(a.ID))
}

func TestMastersNeverTurnOverdue(t *testing.T) {
	f := setup(t)
	m, err := f.svc.CreateBill(f.ctx, f.owner, BillInput{
		Description: "Gym",
		Amount:      "30",
		DueDate:     "2024-01-10",
		Recurrence:  &RecurrenceInput{Frequency: "monthly"},
	}, day("2024-01-20"))
	assert.NoError(t, err)
	assert.Equal(t, models.BillPending, m.Status)

	_, err = f.svc.ProcessAllDueMasters(f.ctx, f.owner, day("2024-02-15"))
	assert.NoError(t, err)
	assert.Equal(t, models.BillPending, f.bill(m.ID).Status)

	overdue, err := f.svc.ListBills(f.ctx, f.owner, BillFilter{Status: models.BillOverdue})
	assert.NoError(t, err)
	assert.Equal(t, []string{"2024-01-10", "2024-02-10"}, dueDates(overdue))
	for _, b := range overdue {
		assert.Equal(t, models.Occurrence, b.Role())
	}
}
