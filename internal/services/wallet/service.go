package wallet

import (
	"context"
	"fmt"
	"log"
	"time"

	"skillhub/internal/models"
	"skillhub/internal/repositories"
)

type service struct {
	ledger  repositories.LedgerRepository
	cache   Cache
	charger CardCharger
	awarder PointsAwarder
	config  Config
}

// NewService creates a new wallet service. cache, charger and awarder are
// optional; a nil charger disables card top-ups.
func NewService(ledger repositories.LedgerRepository, cache Cache, charger CardCharger, awarder PointsAwarder, config Config) Service {
	if ledger == nil {
		panic("ledger is required")
	}
	if config.MaxTopUpAmount == 0 {
		config.MaxTopUpAmount = DefaultMaxTopUpAmount
	}
	if config.ReactivationWait == 0 {
		config.ReactivationWait = DefaultReactivationWait
	}
	return &service{
		ledger:  ledger,
		cache:   cache,
		charger: charger,
		awarder: awarder,
		config:  config,
	}
}

func (s *service) Provision(ctx context.Context, userID uint) (*models.Wallet, error) {
	wallet := &models.Wallet{
		UserID: userID,
		Status: models.WalletStatusActive,
	}
	if err := s.ledger.CreateWallet(wallet); err != nil {
		if err == repositories.ErrDuplicateWallet {
			return nil, ErrWalletExists
		}
		return nil, fmt.Errorf("failed to provision wallet: %w", err)
	}
	s.cacheWallet(ctx, wallet)
	return wallet, nil
}

func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	if s.cache != nil {
		if wallet, err := s.cache.GetWallet(ctx, userID); err == nil && wallet != nil {
			return wallet, nil
		}
	}

	wallet, err := s.ledger.GetWalletByUserID(userID)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	s.cacheWallet(ctx, wallet)
	return wallet, nil
}

func (s *service) GetBalance(ctx context.Context, userID uint) (int64, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// TopUp charges the card and credits the wallet. The charge happens first;
// a credit failure after a successful charge is logged loudly because it
// needs manual reconciliation with the payment provider.
func (s *service) TopUp(ctx context.Context, userID uint, cardToken string, amount int64) (*TopUpResult, error) {
	if amount <= 0 || amount > s.config.MaxTopUpAmount {
		return nil, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidAmount, s.config.MaxTopUpAmount)
	}
	if s.charger == nil {
		return nil, ErrChargeFailed
	}

	wallet, err := s.ledger.GetWalletByUserID(userID)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	if !wallet.IsActive() {
		return nil, ErrWalletInactive
	}

	chargeID, err := s.charger.Charge(ctx, cardToken, amount, fmt.Sprintf("SkillHub wallet top-up for user %d", userID))
	if err != nil {
		log.Printf("top-up charge for user %d failed: %v", userID, err)
		return nil, ErrChargeFailed
	}

	if err := s.ledger.CreditWallet(wallet.ID, amount); err != nil {
		log.Printf("CRITICAL: charge %s succeeded but wallet %d credit failed: %v", chargeID, wallet.ID, err)
		return nil, ErrTransactionFailed
	}

	s.invalidateWallet(ctx, userID)

	if s.awarder != nil {
		if _, err := s.awarder.EarnPointsForTopUp(ctx, userID, wallet.ID, amount); err != nil {
			log.Printf("top-up points award for user %d failed: %v", userID, err)
		}
	}

	updated, err := s.ledger.GetWalletByID(wallet.ID)
	if err != nil {
		updated = wallet
		updated.Balance += amount
	}
	return &TopUpResult{Amount: amount, NewBalance: updated.Balance}, nil
}

func (s *service) Deactivate(ctx context.Context, userID uint, reason string) error {
	wallet, err := s.ledger.GetWalletByUserID(userID)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return ErrWalletNotFound
		}
		return fmt.Errorf("failed to get wallet: %w", err)
	}
	if !wallet.IsActive() {
		return ErrWalletInactive
	}

	now := time.Now()
	wallet.Status = models.WalletStatusInactive
	wallet.StatusReason = reason
	wallet.DeactivatedAt = &now
	if err := s.ledger.UpdateWallet(wallet); err != nil {
		return fmt.Errorf("failed to deactivate wallet: %w", err)
	}

	s.invalidateWallet(ctx, userID)
	return nil
}

// Reactivate re-enables a soft-deactivated wallet. The waiting period
// guards against deactivate/reactivate cycling.
func (s *service) Reactivate(ctx context.Context, userID uint) error {
	wallet, err := s.ledger.GetWalletByUserID(userID)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return ErrWalletNotFound
		}
		return fmt.Errorf("failed to get wallet: %w", err)
	}
	if wallet.IsActive() {
		return ErrWalletAlreadyActive
	}
	if wallet.DeactivatedAt != nil && time.Since(*wallet.DeactivatedAt) < s.config.ReactivationWait {
		return fmt.Errorf("%w: wait %s after deactivation", ErrReactivationTooSoon, s.config.ReactivationWait)
	}

	wallet.Status = models.WalletStatusActive
	wallet.StatusReason = ""
	wallet.DeactivatedAt = nil
	if err := s.ledger.UpdateWallet(wallet); err != nil {
		return fmt.Errorf("failed to reactivate wallet: %w", err)
	}

	s.invalidateWallet(ctx, userID)
	return nil
}

func (s *service) cacheWallet(ctx context.Context, wallet *models.Wallet) {
	if s.cache == nil {
		return
	}
	if err := s.cache.CacheWallet(ctx, wallet); err != nil {
		log.Printf("failed to cache wallet for user %d: %v", wallet.UserID, err)
	}
}

func (s *service) invalidateWallet(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateWallet(ctx, userID); err != nil {
		log.Printf("failed to invalidate wallet cache for user %d: %v", userID, err)
	}
}
