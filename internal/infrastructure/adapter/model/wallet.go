package model

import (
	"time"
)

// Wallet represents the database model for wallets. The unique index on
// UserID is what makes create-on-first-touch safe under concurrent requests.
type Wallet struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	UserID       string    `gorm:"type:uuid;uniqueIndex;not null"`
	BalanceCents int64     `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName specifies the table name for Wallet
func (Wallet) TableName() string {
	return "wallets"
}
