package models

import (
	"time"

	"finance-ledger/internal/datecycle"
)

// Transaction is a single income or expense posting. The amount is always
// stored positive; Type decides the sign of the account effect.
type Transaction struct {
	ID          uint           `gorm:"primaryKey"`
	UserID      uint           `gorm:"index;not null"`
	Description string         `gorm:"size:255"`
	AmountCent  int64          `gorm:"not null"`
	Date        datecycle.Date `gorm:"index;not null"`
	Type        string         `gorm:"size:16;index;not null"` // income / expense
	CategoryID  *uint          `gorm:"index"`
	AccountID   *uint          `gorm:"index"`
	GoalID      *uint          `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SignedCent is the effect of t on its account balance.
func (t *Transaction) SignedCent() int64 {
	if t.Type == TypeExpense {
		return -t.AmountCent
	}
	return t.AmountCent
}
