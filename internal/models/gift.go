package models

import (
	"time"
)

// Gift transaction statuses. A transaction is created pending, reaches
// completed inside the same transfer unit, and may move to cancelled through
// an explicit reversal. completed, cancelled and failed are terminal.
const (
	GiftStatusPending   = "pending"
	GiftStatusCompleted = "completed"
	GiftStatusFailed    = "failed"
	GiftStatusCancelled = "cancelled"
)

// Gift reasons
const (
	GiftReasonBirthday      = "birthday"
	GiftReasonThankYou      = "thank_you"
	GiftReasonCongrats      = "congratulations"
	GiftReasonEncouragement = "encouragement"
	GiftReasonOther         = "other"
)

// GiftTransaction is the append-only audit record of one iMoney transfer
// between two wallets. Amount is fixed at creation and never mutated; only
// the status fields progress.
type GiftTransaction struct {
	ID             uint   `gorm:"primarykey"`
	TransactionID  string `gorm:"uniqueIndex;not null"`
	SenderID       uint   `gorm:"index;not null"`
	SenderName     string
	SenderEmail    string
	RecipientID    uint `gorm:"index;not null"`
	RecipientName  string
	RecipientEmail string
	Amount         int64  `gorm:"not null"`
	Message        string `gorm:"size:200"`
	Reason         string `gorm:"default:'other'"`
	Status         string `gorm:"not null;default:'pending'"`
	Metadata       JSON   `gorm:"type:jsonb"`
	CompletedAt    *time.Time
	CancelledAt    *time.Time
	CancelledBy    *uint
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
