package rewards

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"skillhub/internal/models"
	"skillhub/internal/repositories"
)

type service struct {
	ledger repositories.LedgerRepository
	cache  WalletCache
	config Config
}

// NewService creates a new rewards service. cache is optional.
func NewService(ledger repositories.LedgerRepository, cache WalletCache, config Config) Service {
	if ledger == nil {
		panic("ledger is required")
	}
	if config.DailyManualCap == 0 {
		config.DailyManualCap = DefaultDailyManualCap
	}
	if config.ConversionTiers == nil {
		config.ConversionTiers = DefaultConversionTiers
	}
	return &service{
		ledger: ledger,
		cache:  cache,
		config: config,
	}
}

func (s *service) GetBalance(ctx context.Context, userID uint) (*models.RewardsBalance, error) {
	balance, err := s.ledger.GetRewardsBalance(userID)
	if err != nil {
		if err == repositories.ErrBalanceNotFound {
			// A user who never earned anything simply has a zero balance.
			return &models.RewardsBalance{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get rewards balance: %w", err)
	}
	return balance, nil
}

func (s *service) GetHistory(ctx context.Context, userID uint, limit, offset int) ([]models.RewardsHistoryEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.ledger.ListHistory(ctx, userID, limit, offset)
}

// EarnPoints credits points to the user's balance and appends an EARNED
// history entry in one transaction. Manual earning is subject to the daily
// cap; system-granted sources are exempt.
func (s *service) EarnPoints(ctx context.Context, userID uint, req EarnRequest) (*models.RewardsBalance, error) {
	if req.Points <= 0 {
		return nil, ErrInvalidPoints
	}
	if req.WalletID == 0 {
		return nil, ErrWalletRequired
	}

	var balance *models.RewardsBalance
	err := s.ledger.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		// The cap check shares the transaction with the balance write so two
		// concurrent manual earns cannot both read the same total and
		// jointly overshoot the cap.
		if req.Source == models.RewardsSourceManual {
			earnedToday, err := tx.ManualPointsEarnedSince(ctx, userID, localMidnight(time.Now()))
			if err != nil {
				return fmt.Errorf("failed to check daily cap: %w", err)
			}
			if earnedToday+req.Points > s.config.DailyManualCap {
				return fmt.Errorf("%w: limit is %d points per day", ErrDailyCapExceeded, s.config.DailyManualCap)
			}
		}

		var err error
		balance, err = tx.AddPoints(userID, req.Points)
		if err != nil {
			return err
		}
		return tx.CreateHistoryEntry(&models.RewardsHistoryEntry{
			UserID:      userID,
			Type:        models.RewardsTypeEarned,
			Points:      req.Points,
			WalletID:    req.WalletID,
			Source:      req.Source,
			Description: req.Description,
			RelatedID:   req.RelatedID,
		})
	})
	if err != nil {
		if errors.Is(err, ErrDailyCapExceeded) {
			return nil, err
		}
		log.Printf("earn of %d points for user %d failed: %v", req.Points, userID, err)
		return nil, ErrLedgerFailed
	}
	return balance, nil
}

// RedeemPoints moves points from the spendable balance to the lifetime
// redeemed total and records the movement.
func (s *service) RedeemPoints(ctx context.Context, userID uint, points int64, walletID uint, source string) (*RedeemResult, error) {
	if points <= 0 {
		return nil, ErrInvalidPoints
	}
	if walletID == 0 {
		return nil, ErrWalletRequired
	}

	var balance *models.RewardsBalance
	err := s.ledger.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		var err error
		balance, err = tx.SpendPoints(userID, points)
		if err != nil {
			return err
		}
		return tx.CreateHistoryEntry(&models.RewardsHistoryEntry{
			UserID:      userID,
			Type:        models.RewardsTypeRedeemed,
			Points:      points,
			WalletID:    walletID,
			Source:      source,
			Description: fmt.Sprintf("Redeemed %d points", points),
		})
	})
	if err != nil {
		if err == repositories.ErrInsufficientPoints || err == repositories.ErrBalanceNotFound {
			return nil, ErrInsufficientPoints
		}
		log.Printf("redemption of %d points for user %d failed: %v", points, userID, err)
		return nil, ErrLedgerFailed
	}
	return &RedeemResult{RemainingPoints: balance.Points}, nil
}

// ConvertPointsToIMoney exchanges an exact tier amount of points for iMoney.
// The points deduction and the wallet credit commit in the same transaction.
func (s *service) ConvertPointsToIMoney(ctx context.Context, userID uint, points int64, walletID uint) (*ConversionResult, error) {
	if points <= 0 {
		return nil, ErrInvalidPoints
	}
	if walletID == 0 {
		return nil, ErrWalletRequired
	}

	current, err := s.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current.Points < points {
		return nil, ErrInsufficientPoints
	}

	tier, ok := s.findTier(points)
	if !ok {
		return nil, fmt.Errorf("%w: valid amounts are %s", ErrInvalidTierAmount, s.tierAmounts())
	}

	var balance *models.RewardsBalance
	err = s.ledger.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		var err error
		balance, err = tx.SpendPoints(userID, tier.Points)
		if err != nil {
			return err
		}
		if err := tx.CreditWallet(walletID, tier.IMoney); err != nil {
			return err
		}
		return tx.CreateHistoryEntry(&models.RewardsHistoryEntry{
			UserID:      userID,
			Type:        models.RewardsTypeRedeemed,
			Points:      tier.Points,
			WalletID:    walletID,
			Source:      models.RewardsSourcePointsToIMoney,
			Description: fmt.Sprintf("Converted %d points to %d iMoney", tier.Points, tier.IMoney),
		})
	})
	if err != nil {
		if err == repositories.ErrInsufficientPoints {
			return nil, ErrInsufficientPoints
		}
		log.Printf("conversion of %d points for user %d failed: %v", points, userID, err)
		return nil, ErrLedgerFailed
	}

	if s.cache != nil {
		if err := s.cache.InvalidateWallet(ctx, userID); err != nil {
			log.Printf("failed to invalidate wallet cache for user %d: %v", userID, err)
		}
	}

	return &ConversionResult{
		PointsDeducted:  tier.Points,
		IMoneyCredited:  tier.IMoney,
		RemainingPoints: balance.Points,
		Tier:            tier,
	}, nil
}

func (s *service) GetConversionInfo(ctx context.Context, userID uint) (*ConversionInfo, error) {
	balance, err := s.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	info := &ConversionInfo{
		Points: balance.Points,
		Tiers:  s.config.ConversionTiers,
	}
	for _, tier := range s.config.ConversionTiers {
		if balance.Points >= tier.Points {
			info.AffordableTiers = append(info.AffordableTiers, tier)
		}
	}
	if len(info.AffordableTiers) > 0 {
		best := info.AffordableTiers[0]
		for _, tier := range info.AffordableTiers[1:] {
			if tier.Points > best.Points {
				best = tier
			}
		}
		info.BestTier = &best
		info.CanConvert = true
	}
	return info, nil
}

func (s *service) EarnPointsForTopUp(ctx context.Context, userID, walletID uint, amount int64) (*models.RewardsBalance, error) {
	points := pointsFor(amount, TopUpPointsDivisor)
	return s.EarnPoints(ctx, userID, EarnRequest{
		Points:      points,
		WalletID:    walletID,
		Source:      models.RewardsSourceWalletTopUp,
		Description: fmt.Sprintf("Earned %d points for topping up %d iMoney", points, amount),
	})
}

func (s *service) EarnPointsForSkillPurchase(ctx context.Context, userID, walletID uint, amount int64, skillID string) (*models.RewardsBalance, error) {
	points := pointsFor(amount, SkillPointsDivisor)
	return s.EarnPoints(ctx, userID, EarnRequest{
		Points:      points,
		WalletID:    walletID,
		Source:      models.RewardsSourceSkillPurchase,
		Description: fmt.Sprintf("Earned %d points for purchasing a skill for %d iMoney", points, amount),
		RelatedID:   skillID,
	})
}

func (s *service) EarnPointsForChallengePurchase(ctx context.Context, userID, walletID uint, amount int64, challengeID string) (*models.RewardsBalance, error) {
	points := pointsFor(amount, ChallengePointsDivisor)
	return s.EarnPoints(ctx, userID, EarnRequest{
		Points:      points,
		WalletID:    walletID,
		Source:      models.RewardsSourceChallengePurchase,
		Description: fmt.Sprintf("Earned %d points for purchasing a challenge for %d iMoney", points, amount),
		RelatedID:   challengeID,
	})
}

func (s *service) EarnCustomPointsForTopUp(ctx context.Context, userID, walletID uint, points int64, description string) (*models.RewardsBalance, error) {
	if description == "" {
		description = fmt.Sprintf("Earned %d bonus points for a wallet top-up", points)
	}
	return s.EarnPoints(ctx, userID, EarnRequest{
		Points:      points,
		WalletID:    walletID,
		Source:      models.RewardsSourceWalletTopUp,
		Description: description,
	})
}

func (s *service) findTier(points int64) (ConversionTier, bool) {
	for _, tier := range s.config.ConversionTiers {
		if tier.Points == points {
			return tier, true
		}
	}
	return ConversionTier{}, false
}

func (s *service) tierAmounts() string {
	amounts := make([]string, len(s.config.ConversionTiers))
	for i, tier := range s.config.ConversionTiers {
		amounts[i] = fmt.Sprintf("%d", tier.Points)
	}
	return strings.Join(amounts, ", ")
}

// pointsFor floors amount/divisor with a minimum of one point per event.
func pointsFor(amount, divisor int64) int64 {
	points := amount / divisor
	if points < 1 {
		points = 1
	}
	return points
}

// localMidnight returns the start of the day containing t, in t's location.
// The daily cap is a calendar-day rule, not a rolling 24 hours.
func localMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
