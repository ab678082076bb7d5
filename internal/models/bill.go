package models

import (
	"time"

	"finance-ledger/internal/datecycle"
)

// Bill statuses.
const (
	BillPending = "pending"
	BillPaid    = "paid"
	BillOverdue = "overdue"
)

// BillRole tells which variant a bill row stores.
type BillRole int

const (
	// Standalone is a one-off bill with no recurrence and no parent.
	Standalone BillRole = iota
	// Master is a recurring template; it never has a parent.
	Master
	// Occurrence is one generated instance of a master.
	Occurrence
)

func (r BillRole) String() string {
	switch r {
	case Master:
		return "master"
	case Occurrence:
		return "occurrence"
	}
	return "standalone"
}

// Recurrence carries the parameters of a master bill.
type Recurrence struct {
	Frequency        datecycle.Frequency
	StartDate        datecycle.Date
	NextDueDate      *datecycle.Date
	TotalOccurrences int // 0 means unbounded
	GeneratedCount   int
	Active           bool
}

// Bounded reports whether the series stops after TotalOccurrences.
func (r Recurrence) Bounded() bool { return r.TotalOccurrences > 0 }

// Bill is persisted as one table; Role, Recurrence and Parent expose the
// variant it holds.
type Bill struct {
	ID                   uint           `gorm:"primaryKey"`
	UserID               uint           `gorm:"index;not null"`
	Description          string         `gorm:"size:255;not null"`
	AmountCent           int64          `gorm:"not null"`
	DueDate              datecycle.Date `gorm:"index;not null"`
	Status               string         `gorm:"size:16;index;not null;default:pending"`
	Type                 string         `gorm:"size:16;not null;default:expense"`
	CategoryID           *uint          `gorm:"index"`
	AccountID            *uint          `gorm:"index"`
	PaymentTransactionID *uint          `gorm:"index"`

	// master
	IsMaster         bool            `gorm:"index;not null;default:false"`
	Frequency        string          `gorm:"size:16"`
	StartDate        *datecycle.Date `gorm:"column:start_date"`
	NextDueDate      *datecycle.Date `gorm:"index"`
	TotalOccurrences int             `gorm:"not null;default:0"`
	GeneratedCount   int             `gorm:"not null;default:0"`
	IsActive         bool            `gorm:"index;not null;default:false"`

	// occurrence
	ParentID        *uint `gorm:"index"`
	OccurrenceIndex int   `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role returns the variant stored in b.
func (b *Bill) Role() BillRole {
	switch {
	case b.IsMaster:
		return Master
	case b.ParentID != nil:
		return Occurrence
	}
	return Standalone
}

// Recurrence returns the master parameters; ok is false for non-masters.
func (b *Bill) Recurrence() (r Recurrence, ok bool) {
	if !b.IsMaster {
		return Recurrence{}, false
	}
	r = Recurrence{
		Frequency:        datecycle.Frequency(b.Frequency),
		NextDueDate:      b.NextDueDate,
		TotalOccurrences: b.TotalOccurrences,
		GeneratedCount:   b.GeneratedCount,
		Active:           b.IsActive,
	}
	if b.StartDate != nil {
		r.StartDate = *b.StartDate
	} else {
		r.StartDate = b.DueDate
	}
	return r, true
}

// SetRecurrence turns b into a master with the given parameters.
func (b *Bill) SetRecurrence(r Recurrence) {
	start := r.StartDate
	b.IsMaster = true
	b.ParentID = nil
	b.OccurrenceIndex = 0
	b.Frequency = string(r.Frequency)
	b.StartDate = &start
	b.NextDueDate = r.NextDueDate
	b.TotalOccurrences = r.TotalOccurrences
	b.GeneratedCount = r.GeneratedCount
	b.IsActive = r.Active
}

// ClearRecurrence strips the master parameters, leaving a standalone bill.
func (b *Bill) ClearRecurrence() {
	b.IsMaster = false
	b.Frequency = ""
	b.StartDate = nil
	b.NextDueDate = nil
	b.TotalOccurrences = 0
	b.GeneratedCount = 0
	b.IsActive = false
}

// Parent returns the master id and occurrence index of an occurrence.
func (b *Bill) Parent() (id uint, index int, ok bool) {
	if b.Role() != Occurrence {
		return 0, 0, false
	}
	return *b.ParentID, b.OccurrenceIndex, true
}
