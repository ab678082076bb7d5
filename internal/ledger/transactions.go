package ledger

import (
	"context"
	"fmt"
	"strings"

	"finance-ledger/internal/datecycle"
	"finance-ledger/internal/models"

	"gorm.io/gorm"
)

// TransactionInput is the user-supplied content of a transaction.
type TransactionInput struct {
	Description string
	Amount      string // decimal, e.g. "30.00"
	Date        string // YYYY-MM-DD
	Type        string // income / expense
	CategoryID  *uint
	AccountID   *uint
	GoalID      *uint
}

// toModel validates in without touching the store.
func (in TransactionInput) toModel() (models.Transaction, error) {
	cents, err := parseAmount("amount", in.Amount, true)
	if err != nil {
		return models.Transaction{}, err
	}
	date, err := parseDate("date", in.Date)
	if err != nil {
		return models.Transaction{}, err
	}
	kind, err := parseKind(in.Type)
	if err != nil {
		return models.Transaction{}, err
	}
	desc := strings.TrimSpace(in.Description)
	if len(desc) > 255 {
		return models.Transaction{}, invalid("description longer than 255 characters")
	}
	return models.Transaction{
		Description: desc,
		AmountCent:  cents,
		Date:        date,
		Type:        kind,
		CategoryID:  in.CategoryID,
		AccountID:   in.AccountID,
		GoalID:      in.GoalID,
	}, nil
}

// CreateTransaction validates and stores a transaction and applies its
// effects.
func (s *Service) CreateTransaction(ctx context.Context, owner uint, in TransactionInput) (*models.Transaction, error) {
	t, err := in.toModel()
	if err != nil {
		return nil, err
	}
	err = s.run(ctx, owner, datecycle.Date{}, "create_transaction", func(u *unitOfWork) error {
		if err := u.checkRefs(t.CategoryID, t.AccountID, t.GoalID); err != nil {
			return err
		}
		return u.createTransaction(&t)
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// EditTransaction overwrites a transaction. The effects of the old values
// are reversed and those of the new values applied in the same unit of
// work as the row update.
func (s *Service) EditTransaction(ctx context.Context, owner, id uint, in TransactionInput) (*models.Transaction, error) {
	next, err := in.toModel()
	if err != nil {
		return nil, err
	}
	var out *models.Transaction
	err = s.run(ctx, owner, datecycle.Date{}, "edit_transaction", func(u *unitOfWork) error {
		t, err := find[models.Transaction](u, "transaction", id)
		if err != nil {
			return err
		}
		if err := u.checkRefs(next.CategoryID, next.AccountID, next.GoalID); err != nil {
			return err
		}
		if err := u.reverseEffects(t); err != nil {
			return err
		}
		t.Description = next.Description
		t.AmountCent = next.AmountCent
		t.Date = next.Date
		t.Type = next.Type
		t.CategoryID = next.CategoryID
		t.AccountID = next.AccountID
		t.GoalID = next.GoalID
		if err := u.tx.Save(t).Error; err != nil {
			return err
		}
		if err := u.applyEffects(t); err != nil {
			return err
		}
		u.record("transaction", t.ID, "edited")
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteTransaction reverses the effects of a transaction and removes it.
// A bill paid by it keeps its status but loses the payment link.
func (s *Service) DeleteTransaction(ctx context.Context, owner, id uint) error {
	return s.run(ctx, owner, datecycle.Date{}, "delete_transaction", func(u *unitOfWork) error {
		t, err := find[models.Transaction](u, "transaction", id)
		if err != nil {
			return err
		}
		if err := u.owned().Model(&models.Bill{}).
			Where("payment_transaction_id = ?", t.ID).
			Update("payment_transaction_id", nil).Error; err != nil {
			return err
		}
		return u.deleteTransaction(t)
	})
}

// GetTransaction returns one transaction of owner.
func (s *Service) GetTransaction(ctx context.Context, owner, id uint) (*models.Transaction, error) {
	var t models.Transaction
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).First(&t).Error
	if err != nil {
		return nil, translate(fmt.Errorf("transaction %d: %w", id, err))
	}
	return &t, nil
}

// TransactionFilter narrows ListTransactions. Zero fields do not filter.
type TransactionFilter struct {
	From       datecycle.Date
	To         datecycle.Date // inclusive
	Type       string
	CategoryID *uint
	AccountID  *uint
}

// ListTransactions returns owner's transactions, newest first.
func (s *Service) ListTransactions(ctx context.Context, owner uint, f TransactionFilter) ([]models.Transaction, error) {
	return list[models.Transaction](ctx, s, owner, func(q *gorm.DB) *gorm.DB {
		if !f.From.IsZero() {
			q = q.Where("date >= ?", f.From)
		}
		if !f.To.IsZero() {
			q = q.Where("date <= ?", f.To)
		}
		if f.Type != "" {
			q = q.Where("type = ?", f.Type)
		}
		if f.CategoryID != nil {
			q = q.Where("category_id = ?", *f.CategoryID)
		}
		if f.AccountID != nil {
			q = q.Where("account_id = ?", *f.AccountID)
		}
		return q.Order("date DESC, id DESC")
	})
}

// createTransaction stores t for the unit's owner and applies its effects.
func (u *unitOfWork) createTransaction(t *models.Transaction) error {
	t.UserID = u.owner
	if err := u.tx.Create(t).Error; err != nil {
		return err
	}
	if err := u.applyEffects(t); err != nil {
		return err
	}
	u.record("transaction", t.ID, "created")
	return nil
}

// deleteTransaction reverses the effects of t, then removes the row.
func (u *unitOfWork) deleteTransaction(t *models.Transaction) error {
	if err := u.reverseEffects(t); err != nil {
		return err
	}
	if err := u.tx.Delete(t).Error; err != nil {
		return err
	}
	u.record("transaction", t.ID, "deleted")
	return nil
}
