package models

import (
	"time"
)

// Wallet statuses
const (
	WalletStatusActive   = "active"
	WalletStatusInactive = "inactive"
)

// Wallet holds a user's spendable iMoney balance. Balance is stored in whole
// iMoney units and must never go negative; all mutations go through the
// ledger repository's atomic credit/debit operations.
type Wallet struct {
	ID            uint   `gorm:"primarykey"`
	UserID        uint   `gorm:"uniqueIndex;not null"`
	Balance       int64  `gorm:"not null;default:0"`
	Status        string `gorm:"default:'active'"`
	StatusReason  string `gorm:"default:''"`
	DeactivatedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (w *Wallet) IsActive() bool {
	return w.Status == WalletStatusActive
}
