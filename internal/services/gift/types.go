package gift

import (
	"time"

	"skillhub/internal/models"
)

// Config holds the gift transfer policy. Zero values fall back to the
// package defaults.
type Config struct {
	MinAmount     int64
	MaxAmount     int64
	MaxMessageLen int
	CancelWindow  time.Duration
}

// SendGiftRequest carries the sender's input for one transfer.
type SendGiftRequest struct {
	RecipientEmail string
	Amount         int64
	Message        string
	Reason         string
}

// GiftResult is returned from a successful transfer.
type GiftResult struct {
	Message          string                  `json:"message"`
	Transaction      *models.GiftTransaction `json:"transaction"`
	SenderBalance    int64                   `json:"sender_balance"`
	RecipientBalance int64                   `json:"recipient_balance"`
}

// CancelResult is returned from a successful cancellation.
type CancelResult struct {
	Message          string                  `json:"message"`
	Transaction      *models.GiftTransaction `json:"transaction"`
	SenderBalance    int64                   `json:"sender_balance"`
	RecipientBalance int64                   `json:"recipient_balance"`
}
