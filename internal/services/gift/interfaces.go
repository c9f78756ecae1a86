package gift

import (
	"context"

	"skillhub/internal/models"
)

// Notifier dispatches best-effort notifications after a transfer or
// cancellation commits. Failures are logged by the caller, never propagated.
type Notifier interface {
	Notify(ctx context.Context, userID uint, event string, payload map[string]interface{}) error
}

// WalletCache invalidates cached wallet reads after a balance mutation.
type WalletCache interface {
	InvalidateWallet(ctx context.Context, userID uint) error
}

// Service is the gift transfer engine.
type Service interface {
	SendGift(ctx context.Context, senderID uint, req SendGiftRequest) (*GiftResult, error)
	CancelGift(ctx context.Context, transactionID string, requestingUserID uint) (*CancelResult, error)

	GetHistory(ctx context.Context, userID uint, limit, offset int) ([]models.GiftTransaction, error)
	GetSent(ctx context.Context, userID uint, limit, offset int) ([]models.GiftTransaction, error)
	GetReceived(ctx context.Context, userID uint, limit, offset int) ([]models.GiftTransaction, error)
}
