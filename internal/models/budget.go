package models

import "time"

// Budget caps spending of one expense category in one month.
// SpentCent is a cache of the month's expense transactions for the category.
type Budget struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       uint   `gorm:"uniqueIndex:idx_budget_owner_category_month;not null"`
	CategoryID   uint   `gorm:"uniqueIndex:idx_budget_owner_category_month;not null"`
	Month        string `gorm:"size:7;uniqueIndex:idx_budget_owner_category_month;not null"` // YYYY-MM
	BudgetedCent int64  `gorm:"not null"`
	SpentCent    int64  `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
