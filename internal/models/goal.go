package models

import (
	"time"

	"finance-ledger/internal/datecycle"
)

// Goal statuses.
const (
	GoalInProgress = "in_progress"
	GoalAchieved   = "achieved"
	GoalAbandoned  = "abandoned"
)

// Goal is a savings target funded by contributions.
type Goal struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"index;not null"`
	Name        string          `gorm:"size:64;not null"`
	TargetCent  int64           `gorm:"not null"`
	CurrentCent int64           `gorm:"not null;default:0"`
	DueDate     *datecycle.Date `gorm:"column:due_date"`
	Status      string          `gorm:"size:16;not null;default:in_progress"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RemainingCent is what is still missing to reach the target.
func (g *Goal) RemainingCent() int64 { return g.TargetCent - g.CurrentCent }

// DeriveStatus re-evaluates the status from the amounts. Abandoned goals
// stay abandoned.
func (g *Goal) DeriveStatus() {
	switch {
	case g.Status == GoalAbandoned:
	case g.CurrentCent >= g.TargetCent:
		g.Status = GoalAchieved
	default:
		g.Status = GoalInProgress
	}
}
