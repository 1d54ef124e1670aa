package model

import (
	"time"
)

// Transaction represents the database model for ledger entries. Rows are
// append-only; there is no update path.
type Transaction struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	UserID      string    `gorm:"type:uuid;not null;index"`
	WalletID    string    `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"not null;size:20"`
	ReferenceID string    `gorm:"not null;size:255;index"`
	AmountCents int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`

	Wallet Wallet `gorm:"foreignKey:WalletID;references:ID"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
