package repositories

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrDuplicateWallet     = errors.New("wallet already exists")
	ErrGiftNotFound        = errors.New("gift transaction not found")
	ErrGiftStatusConflict  = errors.New("gift transaction is not in the expected status")
	ErrBalanceNotFound     = errors.New("rewards balance not found")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrInsufficientPoints  = errors.New("insufficient points")
	ErrDatabaseOperation   = errors.New("database operation failed")
)
