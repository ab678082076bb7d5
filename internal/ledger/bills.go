package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finance-ledger/internal/datecycle"
	"finance-ledger/internal/models"

	"gorm.io/gorm"
)

// RecurrenceInput asks for a bill to be a recurring master.
type RecurrenceInput struct {
	Frequency string
	// StartDate anchors the series; empty means the bill's due date.
	StartDate string
	// TotalOccurrences bounds the series; 0 means unbounded.
	TotalOccurrences int
}

// BillInput is the user-supplied content of a bill.
type BillInput struct {
	Description string
	Amount      string
	DueDate     string
	Type        string // defaults to expense
	CategoryID  *uint
	AccountID   *uint
	Recurrence  *RecurrenceInput
}

// billDraft is a validated BillInput.
type billDraft struct {
	bill       models.Bill
	recurrence *models.Recurrence
}

func (in BillInput) validate() (billDraft, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return billDraft{}, invalid("description is empty")
	}
	if len(desc) > 200 {
		return billDraft{}, invalid("description longer than 200 characters")
	}
	cents, err := parseAmount("amount", in.Amount, false)
	if err != nil {
		return billDraft{}, err
	}
	due, err := parseDate("due date", in.DueDate)
	if err != nil {
		return billDraft{}, err
	}
	kind := models.TypeExpense
	if in.Type != "" {
		if kind, err = parseKind(in.Type); err != nil {
			return billDraft{}, err
		}
	}
	d := billDraft{bill: models.Bill{
		Description: desc,
		AmountCent:  cents,
		DueDate:     due,
		Type:        kind,
		CategoryID:  in.CategoryID,
		AccountID:   in.AccountID,
	}}
	if in.Recurrence == nil {
		return d, nil
	}
	freq, err := datecycle.ParseFrequency(in.Recurrence.Frequency)
	if err != nil {
		return billDraft{}, err
	}
	if in.Recurrence.TotalOccurrences < 0 {
		return billDraft{}, invalid("total occurrences must not be negative")
	}
	start := due
	if in.Recurrence.StartDate != "" {
		if start, err = parseDate("start date", in.Recurrence.StartDate); err != nil {
			return billDraft{}, err
		}
	}
	d.recurrence = &models.Recurrence{
		Frequency:        freq,
		StartDate:        start,
		TotalOccurrences: in.Recurrence.TotalOccurrences,
		Active:           true,
	}
	return d, nil
}

// statusFor is the unpaid status of a bill due on due as of asOf.
func statusFor(due, asOf datecycle.Date) string {
	if due.Before(asOf) {
		return models.BillOverdue
	}
	return models.BillPending
}

// unpaidStatus is statusFor for b; a master stays pending.
func unpaidStatus(b *models.Bill, asOf datecycle.Date) string {
	if b.IsMaster {
		return models.BillPending
	}
	return statusFor(b.DueDate, asOf)
}

// CreateBill stores a standalone bill, or a master when recurrence is
// requested; a new master is expanded right away.
func (s *Service) CreateBill(ctx context.Context, owner uint, in BillInput, asOf datecycle.Date) (*models.Bill, error) {
	if err := requireAsOf(asOf); err != nil {
		return nil, err
	}
	d, err := in.validate()
	if err != nil {
		return nil, err
	}
	b := d.bill
	b.UserID = owner
	if d.recurrence != nil {
		b.SetRecurrence(*d.recurrence)
	}
	b.Status = unpaidStatus(&b, asOf)
	err = s.run(ctx, owner, asOf, "create_bill", func(u *unitOfWork) error {
		if err := u.checkRefs(b.CategoryID, b.AccountID, nil); err != nil {
			return err
		}
		if err := u.tx.Create(&b).Error; err != nil {
			return err
		}
		u.record("bill", b.ID, "created as "+b.Role().String())
		if b.Role() == models.Master {
			return u.expand(&b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// PayBill pays a bill from an account: accountID, or the bill's own account
// when nil. An expense transaction is posted and linked to the bill. Paying
// into an active recurring series extends it.
func (s *Service) PayBill(ctx context.Context, owner, id uint, accountID *uint, asOf datecycle.Date) (*models.Bill, error) {
	if err := requireAsOf(asOf); err != nil {
		return nil, err
	}
	var out *models.Bill
	err := s.run(ctx, owner, asOf, "pay_bill", func(u *unitOfWork) error {
		b, err := find[models.Bill](u, "bill", id)
		if err != nil {
			return err
		}
		if b.Status == models.BillPaid {
			return fmt.Errorf("bill %d: %w", b.ID, ErrAlreadyPaid)
		}
		if accountID == nil {
			accountID = b.AccountID
		}
		if accountID == nil {
			return fmt.Errorf("bill %d has no payment account: %w", b.ID, ErrAccountNotFound)
		}
		a, err := find[models.Account](u, "account", *accountID)
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("account %d: %w", *accountID, ErrAccountNotFound)
		}
		if err != nil {
			return err
		}
		if a.BalanceCent < b.AmountCent {
			return fmt.Errorf("account %q: %w", a.Name, ErrInsufficientFunds)
		}
		category, err := u.billCategory(b)
		if err != nil {
			return err
		}

		t := models.Transaction{
			Description: b.Description,
			AmountCent:  b.AmountCent,
			Date:        u.asOf,
			Type:        models.TypeExpense,
			CategoryID:  category,
			AccountID:   &a.ID,
		}
		if err := u.createTransaction(&t); err != nil {
			return err
		}
		b.PaymentTransactionID = &t.ID
		b.Status = models.BillPaid
		if err := u.tx.Save(b).Error; err != nil {
			return err
		}
		u.record("bill", b.ID, "paid")

		master, err := u.seriesMaster(b)
		if err != nil {
			return err
		}
		if master != nil && master.IsActive {
			if err := u.expand(master); err != nil {
				return err
			}
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RescheduleBill moves the due date of an unpaid bill. The status follows
// the new date: pending from asOf on, overdue before.
func (s *Service) RescheduleBill(ctx context.Context, owner, id uint, newDate string, asOf datecycle.Date) (*models.Bill, error) {
	if err := requireAsOf(asOf); err != nil {
		return nil, err
	}
	due, err := parseDate("due date", newDate)
	if err != nil {
		return nil, err
	}
	var out *models.Bill
	err = s.run(ctx, owner, asOf, "reschedule_bill", func(u *unitOfWork) error {
		b, err := find[models.Bill](u, "bill", id)
		if err != nil {
			return err
		}
		if b.Status == models.BillPaid {
			return fmt.Errorf("bill %d: %w", b.ID, ErrAlreadyPaid)
		}
		b.DueDate = due
		b.Status = unpaidStatus(b, u.asOf)
		if err := u.tx.Model(b).Select("due_date", "status").Updates(b).Error; err != nil {
			return err
		}
		u.record("bill", b.ID, "rescheduled to "+due.String())
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteBill removes a bill. A paid bill first has its payment transaction
// deleted, which reverses its effects. Deleting a master deletes its
// occurrences. Deleting an occurrence of an active master cancels the whole
// series: the master loses its recurrence and every occurrence is deleted.
// An occurrence of a finished series is deleted on its own.
// Occurrences removed as part of a series keep their payment transactions.
func (s *Service) DeleteBill(ctx context.Context, owner, id uint) error {
	return s.run(ctx, owner, datecycle.Date{}, "delete_bill", func(u *unitOfWork) error {
		b, err := find[models.Bill](u, "bill", id)
		if err != nil {
			return err
		}
		if b.Status == models.BillPaid && b.PaymentTransactionID != nil {
			t, err := find[models.Transaction](u, "transaction", *b.PaymentTransactionID)
			switch {
			case err == nil:
				if err := u.deleteTransaction(t); err != nil {
					return err
				}
			case !errors.Is(err, ErrNotFound):
				return err
			}
		}

		switch b.Role() {
		case models.Master:
			if err := u.deleteOccurrences(b.ID, false); err != nil {
				return err
			}
		case models.Occurrence:
			master, err := u.seriesMaster(b)
			if err != nil {
				return err
			}
			if master != nil && master.IsActive {
				master.ClearRecurrence()
				if err := u.tx.Save(master).Error; err != nil {
					return err
				}
				u.record("bill", master.ID, "series cancelled")
				// b is one of them
				if err := u.deleteOccurrences(master.ID, false); err != nil {
					return err
				}
				u.record("bill", b.ID, "deleted")
				return nil
			}
		}
		if err := u.tx.Delete(b).Error; err != nil {
			return err
		}
		u.record("bill", b.ID, "deleted")
		return nil
	})
}

// EditBill updates a bill. A standalone bill given a recurrence becomes a
// master and is expanded; a master without one becomes standalone and loses
// its unpaid occurrences; an active master whose recurrence changed is
// re-expanded.
func (s *Service) EditBill(ctx context.Context, owner, id uint, in BillInput, asOf datecycle.Date) (*models.Bill, error) {
	if err := requireAsOf(asOf); err != nil {
		return nil, err
	}
	d, err := in.validate()
	if err != nil {
		return nil, err
	}
	var out *models.Bill
	err = s.run(ctx, owner, asOf, "edit_bill", func(u *unitOfWork) error {
		b, err := find[models.Bill](u, "bill", id)
		if err != nil {
			return err
		}
		if err := u.checkRefs(d.bill.CategoryID, d.bill.AccountID, nil); err != nil {
			return err
		}
		b.Description = d.bill.Description
		b.AmountCent = d.bill.AmountCent
		b.DueDate = d.bill.DueDate
		b.Type = d.bill.Type
		b.CategoryID = d.bill.CategoryID
		b.AccountID = d.bill.AccountID

		expand := false
		switch role := b.Role(); {
		case d.recurrence != nil && role == models.Occurrence:
			return invalid("bill %d is an occurrence of a series and cannot recur itself", b.ID)
		case d.recurrence != nil && role == models.Standalone:
			b.SetRecurrence(*d.recurrence)
			expand = true
		case d.recurrence != nil && role == models.Master:
			cur, _ := b.Recurrence()
			if cur.Frequency != d.recurrence.Frequency ||
				cur.StartDate != d.recurrence.StartDate ||
				cur.TotalOccurrences != d.recurrence.TotalOccurrences {
				expand = cur.Active
				cur.Frequency = d.recurrence.Frequency
				cur.StartDate = d.recurrence.StartDate
				cur.TotalOccurrences = d.recurrence.TotalOccurrences
				b.SetRecurrence(cur)
			}
		case d.recurrence == nil && role == models.Master:
			if err := u.deleteOccurrences(b.ID, true); err != nil {
				return err
			}
			b.ClearRecurrence()
		}
		if b.Status != models.BillPaid {
			b.Status = unpaidStatus(b, u.asOf)
		}

		if err := u.tx.Save(b).Error; err != nil {
			return err
		}
		u.record("bill", b.ID, "edited")
		if expand {
			if err := u.expand(b); err != nil {
				return err
			}
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BillFilter narrows ListBills. Zero fields do not filter.
type BillFilter struct {
	Status   string
	ParentID *uint
	From     datecycle.Date
	To       datecycle.Date // inclusive
}

// ListBills returns owner's bills ordered by due date.
func (s *Service) ListBills(ctx context.Context, owner uint, f BillFilter) ([]models.Bill, error) {
	return list[models.Bill](ctx, s, owner, func(q *gorm.DB) *gorm.DB {
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		if f.ParentID != nil {
			q = q.Where("parent_id = ?", *f.ParentID)
		}
		if !f.From.IsZero() {
			q = q.Where("due_date >= ?", f.From)
		}
		if !f.To.IsZero() {
			q = q.Where("due_date <= ?", f.To)
		}
		return q.Order("due_date ASC, id ASC")
	})
}

// seriesMaster returns the master of b's series: b itself when it is a
// master, its parent when that still exists as a master, else nil.
func (u *unitOfWork) seriesMaster(b *models.Bill) (*models.Bill, error) {
	switch b.Role() {
	case models.Master:
		return b, nil
	case models.Occurrence:
		parentID, _, _ := b.Parent()
		m, err := find[models.Bill](u, "bill", parentID)
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if m.Role() != models.Master {
			return nil, nil
		}
		return m, nil
	}
	return nil, nil
}

// deleteOccurrences removes the occurrences of a master. With unpaidOnly the
// paid ones stay; otherwise paid ones are detached from their payment
// transaction first so the transaction survives as history.
func (u *unitOfWork) deleteOccurrences(masterID uint, unpaidOnly bool) error {
	q := u.owned().Where("parent_id = ?", masterID)
	if unpaidOnly {
		q = q.Where("status <> ?", models.BillPaid)
	} else if err := u.owned().Model(&models.Bill{}).
		Where("parent_id = ?", masterID).
		Update("payment_transaction_id", nil).Error; err != nil {
		return err
	}
	return q.Delete(&models.Bill{}).Error
}
