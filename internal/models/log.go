package models

import "time"

// AuditLog records one committed ledger operation touching an entity.
// Rows of the same operation share OperationID.
type AuditLog struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index;not null"`
	OperationID string `gorm:"size:36;index;not null"`
	Operation   string `gorm:"size:64;not null"` // e.g. pay_bill
	EntityType  string `gorm:"size:32"`
	EntityID    uint
	Detail      string `gorm:"size:255"`
	CreatedAt   time.Time
}
