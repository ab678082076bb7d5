package ledger

import (
	"context"
	"errors"
	"fmt"

	"finance-ledger/internal/datecycle"
	"finance-ledger/internal/models"

	"gorm.io/gorm"
)

// BudgetInput is the user-supplied content of a budget.
type BudgetInput struct {
	CategoryID uint
	Month      string // YYYY-MM
	Amount     string
}

func (in BudgetInput) validate() (month string, cents int64, err error) {
	m, err := datecycle.ParseMonth(in.Month)
	if err != nil {
		return "", 0, invalid("month: %v", err)
	}
	cents, err = parseAmount("budget amount", in.Amount, false)
	if err != nil {
		return "", 0, err
	}
	return m.MonthKey(), cents, nil
}

// CreateBudget adds a budget for an expense category and month. Its spent
// total is computed from the transactions already posted.
func (s *Service) CreateBudget(ctx context.Context, owner uint, in BudgetInput) (*models.Budget, error) {
	month, cents, err := in.validate()
	if err != nil {
		return nil, err
	}
	b := models.Budget{UserID: owner, CategoryID: in.CategoryID, Month: month, BudgetedCent: cents}
	err = s.run(ctx, owner, datecycle.Date{}, "create_budget", func(u *unitOfWork) error {
		if err := u.checkBudgetKey(&b, 0); err != nil {
			return err
		}
		if err := u.refreshSpent(&b); err != nil {
			return err
		}
		if err := u.tx.Create(&b).Error; err != nil {
			return err
		}
		u.record("budget", b.ID, "created")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// EditBudget changes category, month or amount of a budget and recomputes
// its spent total.
func (s *Service) EditBudget(ctx context.Context, owner, id uint, in BudgetInput) (*models.Budget, error) {
	month, cents, err := in.validate()
	if err != nil {
		return nil, err
	}
	var out *models.Budget
	err = s.run(ctx, owner, datecycle.Date{}, "edit_budget", func(u *unitOfWork) error {
		b, err := find[models.Budget](u, "budget", id)
		if err != nil {
			return err
		}
		b.CategoryID, b.Month, b.BudgetedCent = in.CategoryID, month, cents
		if err := u.checkBudgetKey(b, b.ID); err != nil {
			return err
		}
		if err := u.refreshSpent(b); err != nil {
			return err
		}
		if err := u.tx.Save(b).Error; err != nil {
			return err
		}
		u.record("budget", b.ID, "edited")
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteBudget removes a budget. Transactions are untouched.
func (s *Service) DeleteBudget(ctx context.Context, owner, id uint) error {
	return s.run(ctx, owner, datecycle.Date{}, "delete_budget", func(u *unitOfWork) error {
		b, err := find[models.Budget](u, "budget", id)
		if err != nil {
			return err
		}
		if err := u.tx.Delete(b).Error; err != nil {
			return err
		}
		u.record("budget", b.ID, "deleted")
		return nil
	})
}

// ListBudgets returns owner's budgets, optionally for one month, with their
// spent totals recomputed and stored.
func (s *Service) ListBudgets(ctx context.Context, owner uint, month string) ([]models.Budget, error) {
	if month != "" {
		m, err := datecycle.ParseMonth(month)
		if err != nil {
			return nil, invalid("month: %v", err)
		}
		month = m.MonthKey()
	}
	var out []models.Budget
	err := s.run(ctx, owner, datecycle.Date{}, "list_budgets", func(u *unitOfWork) error {
		q := u.owned()
		if month != "" {
			q = q.Where("month = ?", month)
		}
		if err := q.Order("month DESC, id ASC").Find(&out).Error; err != nil {
			return err
		}
		for i := range out {
			before := out[i].SpentCent
			if err := u.refreshSpent(&out[i]); err != nil {
				return err
			}
			if out[i].SpentCent == before {
				continue
			}
			if err := u.tx.Model(&out[i]).Update("spent_cent", out[i].SpentCent).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// checkBudgetKey verifies the category is an expense category of the owner
// and that no other budget covers the same category and month.
func (u *unitOfWork) checkBudgetKey(b *models.Budget, except uint) error {
	c, err := find[models.Category](u, "category", b.CategoryID)
	if err != nil {
		return err
	}
	if c.Type != models.TypeExpense {
		return invalid("budgets need an expense category, %q is %s", c.Name, c.Type)
	}
	var existing models.Budget
	err = u.owned().Where("category_id = ? AND month = ? AND id <> ?", b.CategoryID, b.Month, except).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("budget for %q in %s: %w", c.Name, b.Month, ErrDuplicateName)
}

// refreshSpent recomputes b.SpentCent from the live expense transactions of
// its owner, category and month.
func (u *unitOfWork) refreshSpent(b *models.Budget) error {
	first, err := datecycle.ParseMonth(b.Month)
	if err != nil {
		return err
	}
	var spent int64
	err = u.tx.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND category_id = ?", b.UserID, models.TypeExpense, b.CategoryID).
		Where("date >= ? AND date < ?", first, first.AddDays(32).FirstOfMonth()).
		Select("COALESCE(SUM(amount_cent), 0)").
		Scan(&spent).Error
	if err != nil {
		return err
	}
	b.SpentCent = spent
	return nil
}
