package ledger

import (
	"errors"

	"finance-ledger/internal/models"

	"gorm.io/gorm"
)

// applyEffects posts the side effects of t: account balance, budget spent
// and goal progress. Callers apply exactly once per state transition and
// pair every apply with one reverseEffects using the same field values.
func (u *unitOfWork) applyEffects(t *models.Transaction) error {
	return u.effects(t, 1)
}

// reverseEffects undoes applyEffects for t.
func (u *unitOfWork) reverseEffects(t *models.Transaction) error {
	return u.effects(t, -1)
}

func (u *unitOfWork) effects(t *models.Transaction, sign int64) error {
	if err := u.accountEffect(t, sign); err != nil {
		return err
	}
	if err := u.budgetEffect(t, sign); err != nil {
		return err
	}
	return u.goalEffect(t, sign)
}

// accountEffect adds income to and subtracts expenses from the linked
// account. Without an account there is nothing to do.
func (u *unitOfWork) accountEffect(t *models.Transaction, sign int64) error {
	if t.AccountID == nil {
		return nil
	}
	return u.owned().Model(&models.Account{}).
		Where("id = ?", *t.AccountID).
		Update("balance_cent", gorm.Expr("balance_cent + ?", sign*t.SignedCent())).Error
}

// budgetEffect moves the spent total of the budget covering the expense's
// category and month. Budgets are never created here: with no matching
// row the effect is dropped.
func (u *unitOfWork) budgetEffect(t *models.Transaction, sign int64) error {
	if t.Type != models.TypeExpense || t.CategoryID == nil {
		return nil
	}
	return u.owned().Model(&models.Budget{}).
		Where("category_id = ? AND month = ?", *t.CategoryID, t.Date.MonthKey()).
		Update("spent_cent", gorm.Expr("spent_cent + ?", sign*t.AmountCent)).Error
}

// goalEffect moves the goal's current amount by the transaction amount,
// whatever its type, and re-derives the goal status.
func (u *unitOfWork) goalEffect(t *models.Transaction, sign int64) error {
	if t.GoalID == nil {
		return nil
	}
	var g models.Goal
	err := u.owned().Where("id = ?", *t.GoalID).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	g.CurrentCent += sign * t.AmountCent
	g.DeriveStatus()
	return u.tx.Model(&g).Select("current_cent", "status").Updates(&g).Error
}
