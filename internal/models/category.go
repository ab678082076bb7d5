package models

import "time"

// Transaction and category kinds.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Category represents income/expense category.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex:idx_category_owner_name_type;not null"`
	Name      string `gorm:"size:64;uniqueIndex:idx_category_owner_name_type;not null"`
	Type      string `gorm:"size:16;uniqueIndex:idx_category_owner_name_type;not null"` // income / expense
	CreatedAt time.Time
	UpdatedAt time.Time
}
