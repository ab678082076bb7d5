package models

import "time"

// User is the owner every other entity belongs to.
type User struct {
	ID          uint   `gorm:"primaryKey"`
	Username    string `gorm:"size:64;uniqueIndex;not null"`
	DisplayName string `gorm:"size:64"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
