package ledger

import (
	"context"
	"fmt"

	"finance-ledger/internal/datecycle"
	"finance-ledger/internal/models"
)

// ExpandRecurringBill regenerates the occurrences of a master bill.
func (s *Service) ExpandRecurringBill(ctx context.Context, owner, masterID uint, asOf datecycle.Date) (*models.Bill, error) {
	if err := requireAsOf(asOf); err != nil {
		return nil, err
	}
	var out *models.Bill
	err := s.run(ctx, owner, asOf, "expand_recurring_bill", func(u *unitOfWork) error {
		m, err := find[models.Bill](u, "bill", masterID)
		if err != nil {
			return err
		}
		if m.Role() != models.Master {
			return invalid("bill %d is not a recurring master", m.ID)
		}
		if err := u.expand(m); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ProcessAllDueMasters is the on-access trigger: pending bills due before
// asOf become overdue, then every active master whose next due date is
// unset or not after asOf is expanded. It returns how many masters were
// expanded.
func (s *Service) ProcessAllDueMasters(ctx context.Context, owner uint, asOf datecycle.Date) (int, error) {
	if err := requireAsOf(asOf); err != nil {
		return 0, err
	}
	var n int
	err := s.run(ctx, owner, asOf, "process_due_masters", func(u *unitOfWork) error {
		if err := u.markOverdue(); err != nil {
			return err
		}
		var masters []models.Bill
		err := u.owned().
			Where("is_master = ? AND is_active = ?", true, true).
			Where("next_due_date IS NULL OR next_due_date <= ?", asOf).
			Order("id ASC").
			Find(&masters).Error
		if err != nil {
			return err
		}
		for i := range masters {
			if err := u.expand(&masters[i]); err != nil {
				return fmt.Errorf("expand bill %d: %w", masters[i].ID, err)
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// markOverdue flips pending bills due before the as-of date to overdue.
// Masters are skipped; their obligations live in the occurrences.
func (u *unitOfWork) markOverdue() error {
	return u.owned().Model(&models.Bill{}).
		Where("is_master = ? AND status = ? AND due_date < ?", false, models.BillPending, u.asOf).
		Update("status", models.BillOverdue).Error
}

// expand regenerates the occurrences of master m and advances its
// recurrence state. Unpaid occurrences are dropped and rebuilt; a paid one
// fills its index slot whatever its due date, so a rescheduled payment is not
// billed again. A master that was never
// persisted is left alone.
func (u *unitOfWork) expand(m *models.Bill) error {
	if m.ID == 0 {
		return nil
	}
	r, ok := m.Recurrence()
	if !ok {
		return invalid("bill %d is not a recurring master", m.ID)
	}
	if _, err := datecycle.ParseFrequency(string(r.Frequency)); err != nil {
		return err
	}

	// overdue is a pending bill past its date, so it is regenerated too
	if err := u.owned().
		Where("parent_id = ? AND status <> ?", m.ID, models.BillPaid).
		Delete(&models.Bill{}).Error; err != nil {
		return err
	}

	var paid []models.Bill
	if err := u.owned().Where("parent_id = ? AND status = ?", m.ID, models.BillPaid).Find(&paid).Error; err != nil {
		return err
	}
	kept := make(map[int]bool, len(paid))
	for _, p := range paid {
		kept[p.OccurrenceIndex] = true
	}

	n := r.TotalOccurrences
	if n <= 0 {
		n = u.horizon
	}
	generated := 0
	for i := 1; i <= n; i++ {
		due, err := datecycle.NextDate(r.StartDate, r.Frequency, i-1)
		if err != nil {
			return err
		}
		if kept[i] {
			generated++
			continue
		}
		status := models.BillPending
		if due.Before(u.asOf) {
			status = models.BillOverdue
		}
		desc := m.Description
		if r.Frequency == datecycle.Installments && r.Bounded() {
			desc = fmt.Sprintf("%s (Installment %d/%d)", m.Description, i, n)
		}
		parent := m.ID
		child := models.Bill{
			UserID:          u.owner,
			Description:     desc,
			AmountCent:      m.AmountCent,
			DueDate:         due,
			Status:          status,
			Type:            m.Type,
			CategoryID:      m.CategoryID,
			AccountID:       m.AccountID,
			ParentID:        &parent,
			OccurrenceIndex: i,
		}
		if err := u.tx.Create(&child).Error; err != nil {
			return err
		}
		generated++
	}

	r.GeneratedCount = generated
	switch {
	case r.Bounded() && generated >= r.TotalOccurrences:
		r.Active = false
		r.NextDueDate = nil
	case r.Bounded():
		next, err := datecycle.NextDate(r.StartDate, r.Frequency, generated)
		if err != nil {
			return err
		}
		r.NextDueDate = &next
	default:
		next, err := datecycle.NextDate(u.asOf, r.Frequency, 1)
		if err != nil {
			return err
		}
		r.NextDueDate = &next
	}
	m.SetRecurrence(r)
	if err := u.tx.Save(m).Error; err != nil {
		return err
	}
	u.record("bill", m.ID, fmt.Sprintf("expanded to %d occurrences", generated))
	return nil
}

func requireAsOf(asOf datecycle.Date) error {
	if asOf.IsZero() {
		return invalid("as-of date is required")
	}
	return nil
}
