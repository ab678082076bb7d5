package ledger

import (
	"context"
	"fmt"

	"finance-ledger/internal/datecycle"
	"finance-ledger/internal/models"
)

// Transfer is the pair of transactions posted by TransferFunds.
type Transfer struct {
	Out *models.Transaction // expense on the source account
	In  *models.Transaction // income on the destination account
}

// TransferFunds moves amount between two accounts of owner as an
// uncategorized expense/income pair dated asOf.
func (s *Service) TransferFunds(ctx context.Context, owner, sourceID, destinationID uint, amount string, asOf datecycle.Date) (*Transfer, error) {
	if err := requireAsOf(asOf); err != nil {
		return nil, err
	}
	if sourceID == destinationID {
		return nil, invalid("source and destination accounts must differ")
	}
	cents, err := parseAmount("transfer amount", amount, false)
	if err != nil {
		return nil, err
	}
	var out Transfer
	err = s.run(ctx, owner, asOf, "transfer_funds", func(u *unitOfWork) error {
		src, err := find[models.Account](u, "account", sourceID)
		if err != nil {
			return err
		}
		dst, err := find[models.Account](u, "account", destinationID)
		if err != nil {
			return err
		}
		if src.BalanceCent < cents {
			return fmt.Errorf("account %q: %w", src.Name, ErrInsufficientFunds)
		}
		out.Out = &models.Transaction{
			Description: fmt.Sprintf("Transfer to %s", dst.Name),
			AmountCent:  cents,
			Date:        u.asOf,
			Type:        models.TypeExpense,
			AccountID:   &src.ID,
		}
		out.In = &models.Transaction{
			Description: fmt.Sprintf("Transfer from %s", src.Name),
			AmountCent:  cents,
			Date:        u.asOf,
			Type:        models.TypeIncome,
			AccountID:   &dst.ID,
		}
		if err := u.createTransaction(out.Out); err != nil {
			return err
		}
		return u.createTransaction(out.In)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
