package gift

import "errors"

// Service errors
var (
	ErrSenderNotFound            = errors.New("sender not found")
	ErrRecipientNotFound         = errors.New("recipient not found")
	ErrRecipientWalletNotFound   = errors.New("recipient has no wallet")
	ErrRecipientWalletInactive   = errors.New("recipient wallet is not active")
	ErrSelfGift                  = errors.New("cannot send a gift to yourself")
	ErrSenderWalletNotFound      = errors.New("sender has no wallet")
	ErrSenderWalletInactive      = errors.New("sender wallet is not active")
	ErrInsufficientBalance       = errors.New("insufficient balance")
	ErrInvalidAmount             = errors.New("gift amount is out of range")
	ErrMessageTooLong            = errors.New("gift message is too long")
	ErrGiftNotFound              = errors.New("gift transaction not found")
	ErrNotGiftSender             = errors.New("only the sender can cancel a gift")
	ErrGiftAlreadyCancelled      = errors.New("gift has already been cancelled")
	ErrGiftNotCancellable        = errors.New("gift cannot be cancelled")
	ErrCancellationWindowExpired = errors.New("cancellation window has expired")
	ErrTransferFailed            = errors.New("gift transfer failed")
)
