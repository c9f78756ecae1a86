package models

import (
	"time"
)

// Rewards history entry types
const (
	RewardsTypeEarned   = "EARNED"
	RewardsTypeRedeemed = "REDEEMED"
)

// Rewards sources. Manual earning is user-claimed and subject to the daily
// cap; the remaining sources are system-granted.
const (
	RewardsSourceManual            = "manual"
	RewardsSourceWalletTopUp       = "wallet_topup"
	RewardsSourceSkillPurchase     = "skill_purchase"
	RewardsSourceChallengePurchase = "challenge_purchase"
	RewardsSourcePointsToIMoney    = "points_to_imoney"
)

// RewardsBalance is the per-user points ledger head: Points is the current
// spendable balance (never negative), Redeemed the lifetime total spent or
// converted (only increases).
type RewardsBalance struct {
	ID        uint  `gorm:"primarykey"`
	UserID    uint  `gorm:"uniqueIndex;not null"`
	Points    int64 `gorm:"not null;default:0"`
	Redeemed  int64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RewardsHistoryEntry is an immutable audit record of one points movement.
type RewardsHistoryEntry struct {
	ID          uint   `gorm:"primarykey"`
	UserID      uint   `gorm:"index;not null"`
	Type        string `gorm:"not null"`
	Points      int64  `gorm:"not null"`
	WalletID    uint   `gorm:"not null"`
	Source      string `gorm:"index;not null"`
	Description string
	RelatedID   string
	CreatedAt   time.Time `gorm:"index"`
}
