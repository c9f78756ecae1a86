package gift

import "time"

// Default gift policy values
const (
	DefaultMinAmount     int64 = 1
	DefaultMaxAmount     int64 = 1000
	DefaultMaxMessageLen       = 200
	DefaultCancelWindow        = time.Hour
)

// Notification events dispatched after a transfer commits
const (
	EventGiftSent      = "gift_sent"
	EventGiftReceived  = "gift_received"
	EventGiftCancelled = "gift_cancelled"
)
