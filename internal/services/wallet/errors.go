package wallet

import "errors"

// Service errors
var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrWalletExists        = errors.New("wallet already exists")
	ErrWalletInactive      = errors.New("wallet is not active")
	ErrWalletAlreadyActive = errors.New("wallet is already active")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrReactivationTooSoon = errors.New("wallet cannot be reactivated yet")
	ErrChargeFailed        = errors.New("card charge failed")
	ErrTransactionFailed   = errors.New("wallet transaction failed")
)
