package wallet

import (
	"context"
	"time"

	"skillhub/internal/models"
)

// Config holds wallet policy. Zero values fall back to the package defaults.
type Config struct {
	MaxTopUpAmount   int64
	ReactivationWait time.Duration
}

// TopUpResult reports a completed card-backed top-up.
type TopUpResult struct {
	Amount     int64 `json:"amount"`
	NewBalance int64 `json:"new_balance"`
}

// CardCharger charges an external card for a wallet top-up. The production
// implementation goes through Stripe; tests inject a fake.
type CardCharger interface {
	Charge(ctx context.Context, cardToken string, amount int64, description string) (chargeID string, err error)
}

// PointsAwarder grants top-up reward points after a successful top-up.
// Failures are logged, never surfaced: the top-up has already committed.
type PointsAwarder interface {
	EarnPointsForTopUp(ctx context.Context, userID, walletID uint, amount int64) (*models.RewardsBalance, error)
}

// Cache is the read-through wallet cache.
type Cache interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, userID uint) error
}

// Service manages wallet lifecycle and balance reads.
type Service interface {
	Provision(ctx context.Context, userID uint) (*models.Wallet, error)
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	GetBalance(ctx context.Context, userID uint) (int64, error)
	TopUp(ctx context.Context, userID uint, cardToken string, amount int64) (*TopUpResult, error)
	Deactivate(ctx context.Context, userID uint, reason string) error
	Reactivate(ctx context.Context, userID uint) error
}
