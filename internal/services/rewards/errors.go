package rewards

import "errors"

// Service errors
var (
	ErrInvalidPoints      = errors.New("points must be greater than zero")
	ErrWalletRequired     = errors.New("wallet id is required")
	ErrDailyCapExceeded   = errors.New("daily manual earning limit exceeded")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrInvalidTierAmount  = errors.New("points amount does not match a conversion tier")
	ErrLedgerFailed       = errors.New("rewards ledger update failed")
)
