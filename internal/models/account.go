package models

import "time"

// Account holds money. Balance is only changed by posting transactions,
// apart from the opening balance set at creation.
type Account struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"uniqueIndex:idx_account_owner_name;not null"`
	Name        string `gorm:"size:64;uniqueIndex:idx_account_owner_name;not null"`
	BalanceCent int64  `gorm:"not null;default:0"` // store in cents to avoid float
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
