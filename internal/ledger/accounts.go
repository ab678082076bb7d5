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

func cleanName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("%s is empty", field)
	}
	if len(name) > 64 {
		return "", invalid("%s longer than 64 characters", field)
	}
	return name, nil
}

// CreateAccount opens an account with an opening balance.
func (s *Service) CreateAccount(ctx context.Context, owner uint, name, openingBalance string) (*models.Account, error) {
	name, err := cleanName("account name", name)
	if err != nil {
		return nil, err
	}
	var opening int64
	if strings.TrimSpace(openingBalance) != "" {
		if opening, err = parseAmount("opening balance", openingBalance, true); err != nil {
			return nil, err
		}
	}
	a := models.Account{UserID: owner, Name: name, BalanceCent: opening}
	err = s.run(ctx, owner, datecycle.Date{}, "create_account", func(u *unitOfWork) error {
		if err := u.uniqueAccountName(name, 0); err != nil {
			return err
		}
		if err := u.tx.Create(&a).Error; err != nil {
			return err
		}
		u.record("account", a.ID, "created")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// RenameAccount changes the name of an account.
func (s *Service) RenameAccount(ctx context.Context, owner, id uint, name string) (*models.Account, error) {
	name, err := cleanName("account name", name)
	if err != nil {
		return nil, err
	}
	var out *models.Account
	err = s.run(ctx, owner, datecycle.Date{}, "rename_account", func(u *unitOfWork) error {
		a, err := find[models.Account](u, "account", id)
		if err != nil {
			return err
		}
		if err := u.uniqueAccountName(name, a.ID); err != nil {
			return err
		}
		a.Name = name
		if err := u.tx.Model(a).Update("name", name).Error; err != nil {
			return err
		}
		u.record("account", a.ID, "renamed")
		out = a
		return nil
	})
	return out, err
}

// DeleteAccount removes an account. Transactions and bills referencing it
// are detached; their effects are not reversed.
func (s *Service) DeleteAccount(ctx context.Context, owner, id uint) error {
	return s.run(ctx, owner, datecycle.Date{}, "delete_account", func(u *unitOfWork) error {
		a, err := find[models.Account](u, "account", id)
		if err != nil {
			return err
		}
		for _, m := range []any{&models.Transaction{}, &models.Bill{}} {
			if err := u.owned().Model(m).Where("account_id = ?", a.ID).Update("account_id", nil).Error; err != nil {
				return err
			}
		}
		if err := u.tx.Delete(a).Error; err != nil {
			return err
		}
		u.record("account", a.ID, "deleted")
		return nil
	})
}

// ListAccounts returns owner's accounts ordered by name.
func (s *Service) ListAccounts(ctx context.Context, owner uint) ([]models.Account, error) {
	return list[models.Account](ctx, s, owner, func(q *gorm.DB) *gorm.DB {
		return q.Order("name ASC")
	})
}

func (u *unitOfWork) uniqueAccountName(name string, except uint) error {
	var existing models.Account
	err := u.owned().Where("name = ? AND id <> ?", name, except).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("account %q: %w", name, ErrDuplicateName)
}
