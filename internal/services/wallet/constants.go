package wallet

import "time"

// Default wallet policy values
const (
	DefaultMaxTopUpAmount   int64 = 10000
	DefaultReactivationWait       = 48 * time.Hour
)
