package rewards

import (
	"context"

	"skillhub/internal/models"
)

// Config holds the rewards policy. Zero values fall back to the package
// defaults.
type Config struct {
	DailyManualCap  int64
	ConversionTiers []ConversionTier
}

// ConversionTier maps an exact points amount to the iMoney it buys.
type ConversionTier struct {
	Points int64 `json:"points"`
	IMoney int64 `json:"imoney"`
}

// EarnRequest carries the input for one earning event.
type EarnRequest struct {
	Points      int64
	WalletID    uint
	Source      string
	Description string
	RelatedID   string
}

// RedeemResult reports the balance left after a redemption.
type RedeemResult struct {
	RemainingPoints int64 `json:"remaining_points"`
}

// ConversionResult reports one completed points-to-iMoney conversion.
type ConversionResult struct {
	PointsDeducted  int64          `json:"points_deducted"`
	IMoneyCredited  int64          `json:"imoney_credited"`
	RemainingPoints int64          `json:"remaining_points"`
	Tier            ConversionTier `json:"tier"`
}

// ConversionInfo describes what the user could convert right now.
type ConversionInfo struct {
	Points          int64            `json:"points"`
	Tiers           []ConversionTier `json:"tiers"`
	AffordableTiers []ConversionTier `json:"affordable_tiers"`
	BestTier        *ConversionTier  `json:"best_tier,omitempty"`
	CanConvert      bool             `json:"can_convert"`
}

// WalletCache invalidates cached wallet reads after a conversion credits a
// wallet.
type WalletCache interface {
	InvalidateWallet(ctx context.Context, userID uint) error
}

// Service is the rewards points engine.
type Service interface {
	GetBalance(ctx context.Context, userID uint) (*models.RewardsBalance, error)
	GetHistory(ctx context.Context, userID uint, limit, offset int) ([]models.RewardsHistoryEntry, error)

	EarnPoints(ctx context.Context, userID uint, req EarnRequest) (*models.RewardsBalance, error)
	RedeemPoints(ctx context.Context, userID uint, points int64, walletID uint, source string) (*RedeemResult, error)
	ConvertPointsToIMoney(ctx context.Context, userID uint, points int64, walletID uint) (*ConversionResult, error)
	GetConversionInfo(ctx context.Context, userID uint) (*ConversionInfo, error)

	EarnPointsForTopUp(ctx context.Context, userID, walletID uint, amount int64) (*models.RewardsBalance, error)
	EarnPointsForSkillPurchase(ctx context.Context, userID, walletID uint, amount int64, skillID string) (*models.RewardsBalance, error)
	EarnPointsForChallengePurchase(ctx context.Context, userID, walletID uint, amount int64, challengeID string) (*models.RewardsBalance, error)
	EarnCustomPointsForTopUp(ctx context.Context, userID, walletID uint, points int64, description string) (*models.RewardsBalance, error)
}
