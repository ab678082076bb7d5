package ledger

import (
	"context"
	"errors"
	"fmt"

	"finance-ledger/internal/datecycle"
	"finance-ledger/internal/models"

	"gorm.io/gorm"
)

// Reserved category names.
const (
	CategorySavingsForGoals = "Savings for Goals"
	CategoryFixedBills      = "Fixed Bills"
	CategoryOtherExpenses   = "Other Expenses"
)

// CreateCategory adds a category; (name, type) is unique per owner.
func (s *Service) CreateCategory(ctx context.Context, owner uint, name, kind string) (*models.Category, error) {
	name, err := cleanName("category name", name)
	if err != nil {
		return nil, err
	}
	if kind, err = parseKind(kind); err != nil {
		return nil, err
	}
	var out *models.Category
	err = s.run(ctx, owner, datecycle.Date{}, "create_category", func(u *unitOfWork) error {
		c, err := u.lookupCategory(name, kind)
		if err != nil {
			return err
		}
		if c != nil {
			return fmt.Errorf("category %q (%s): %w", name, kind, ErrDuplicateName)
		}
		out, err = u.createCategory(name, kind)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteCategory removes a category together with its budgets. Transactions
// and bills keep existing without a category.
func (s *Service) DeleteCategory(ctx context.Context, owner, id uint) error {
	return s.run(ctx, owner, datecycle.Date{}, "delete_category", func(u *unitOfWork) error {
		c, err := find[models.Category](u, "category", id)
		if err != nil {
			return err
		}
		if err := u.owned().Where("category_id = ?", c.ID).Delete(&models.Budget{}).Error; err != nil {
			return err
		}
		for _, m := range []any{&models.Transaction{}, &models.Bill{}} {
			if err := u.owned().Model(m).Where("category_id = ?", c.ID).Update("category_id", nil).Error; err != nil {
				return err
			}
		}
		if err := u.tx.Delete(c).Error; err != nil {
			return err
		}
		u.record("category", c.ID, "deleted")
		return nil
	})
}

// ListCategories returns owner's categories, optionally of one type.
func (s *Service) ListCategories(ctx context.Context, owner uint, kind string) ([]models.Category, error) {
	return list[models.Category](ctx, s, owner, func(q *gorm.DB) *gorm.DB {
		if kind != "" {
			q = q.Where("type = ?", kind)
		}
		return q.Order("type ASC, name ASC")
	})
}

// lookupCategory returns the owner's category with that name and type, or nil.
func (u *unitOfWork) lookupCategory(name, kind string) (*models.Category, error) {
	var c models.Category
	err := u.owned().Where("name = ? AND type = ?", name, kind).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (u *unitOfWork) createCategory(name, kind string) (*models.Category, error) {
	c := models.Category{UserID: u.owner, Name: name, Type: kind}
	if err := u.tx.Create(&c).Error; err != nil {
		return nil, err
	}
	u.record("category", c.ID, "created")
	return &c, nil
}

// ensureCategory returns the named category, creating it when missing.
func (u *unitOfWork) ensureCategory(name, kind string) (*models.Category, error) {
	c, err := u.lookupCategory(name, kind)
	if err != nil || c != nil {
		return c, err
	}
	return u.createCategory(name, kind)
}

// billCategory picks the expense category of a bill payment: the bill's own
// category, else "Fixed Bills", else "Other Expenses", else none.
func (u *unitOfWork) billCategory(b *models.Bill) (*uint, error) {
	if b.CategoryID != nil {
		var c models.Category
		err := u.owned().Where("id = ?", *b.CategoryID).First(&c).Error
		if err == nil {
			return &c.ID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	for _, name := range []string{CategoryFixedBills, CategoryOtherExpenses} {
		c, err := u.lookupCategory(name, models.TypeExpense)
		if err != nil {
			return nil, err
		}
		if c != nil {
			return &c.ID, nil
		}
	}
	return nil, nil
}
