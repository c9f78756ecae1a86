package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillhub/internal/models"

	"gorm.io/gorm"
)

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{
		db: db,
	}
}

func (r *ledgerRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *ledgerRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *ledgerRepository) CreateWallet(wallet *models.Wallet) error {
	var count int64
	if err := r.db.Model(&models.Wallet{}).Where("user_id = ?", wallet.UserID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing wallet: %w", err)
	}
	if count > 0 {
		return ErrDuplicateWallet
	}
	if err := r.db.Create(wallet).Error; err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (r *ledgerRepository) GetWalletByID(id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.First(&wallet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *ledgerRepository) GetWalletByUserID(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *ledgerRepository) UpdateWallet(wallet *models.Wallet) error {
	if err := r.db.Save(wallet).Error; err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	return nil
}

func (r *ledgerRepository) CreditWallet(walletID uint, amount int64) error {
	result := r.db.Model(&models.Wallet{}).
		Where("id = ?", walletID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to credit wallet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (r *ledgerRepository) DebitWallet(walletID uint, amount int64) error {
	// The balance >= amount guard makes the debit atomic: a concurrent debit
	// that drains the wallet first leaves this one with zero affected rows.
	result := r.db.Model(&models.Wallet{}).
		Where("id = ? AND balance >= ?", walletID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to debit wallet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Wallet{}).Where("id = ?", walletID).Count(&count).Error; err == nil && count == 0 {
			return ErrWalletNotFound
		}
		return ErrInsufficientBalance
	}
	return nil
}

func (r *ledgerRepository) CreateGift(gift *models.GiftTransaction) error {
	if err := r.db.Create(gift).Error; err != nil {
		return fmt.Errorf("failed to create gift transaction: %w", err)
	}
	return nil
}

func (r *ledgerRepository) GetGiftByTransactionID(transactionID string) (*models.GiftTransaction, error) {
	var gift models.GiftTransaction
	if err := r.db.Where("transaction_id = ?", transactionID).First(&gift).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGiftNotFound
		}
		return nil, fmt.Errorf("failed to get gift transaction: %w", err)
	}
	return &gift, nil
}

func (r *ledgerRepository) UpdateGift(gift *models.GiftTransaction) error {
	if err := r.db.Save(gift).Error; err != nil {
		return fmt.Errorf("failed to update gift transaction: %w", err)
	}
	return nil
}

func (r *ledgerRepository) MarkGiftCancelled(transactionID string, cancelledBy uint) error {
	// The status guard in the WHERE clause makes the transition atomic: a
	// concurrent cancellation that committed first leaves this update with
	// zero affected rows.
	result := r.db.Model(&models.GiftTransaction{}).
		Where("transaction_id = ? AND status = ?", transactionID, models.GiftStatusCompleted).
		Updates(map[string]interface{}{
			"status":       models.GiftStatusCancelled,
			"cancelled_at": time.Now(),
			"cancelled_by": cancelledBy,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to cancel gift transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetGiftByTransactionID(transactionID); err != nil {
			return err
		}
		return ErrGiftStatusConflict
	}
	return nil
}

func (r *ledgerRepository) ListGiftsBySender(ctx context.Context, userID uint, limit, offset int) ([]models.GiftTransaction, error) {
	return r.listGifts(ctx, "sender_id = ?", []interface{}{userID}, limit, offset)
}

func (r *ledgerRepository) ListGiftsByRecipient(ctx context.Context, userID uint, limit, offset int) ([]models.GiftTransaction, error) {
	return r.listGifts(ctx, "recipient_id = ?", []interface{}{userID}, limit, offset)
}

func (r *ledgerRepository) ListGiftsByUser(ctx context.Context, userID uint, limit, offset int) ([]models.GiftTransaction, error) {
	return r.listGifts(ctx, "sender_id = ? OR recipient_id = ?", []interface{}{userID, userID}, limit, offset)
}

func (r *ledgerRepository) listGifts(ctx context.Context, query string, args []interface{}, limit, offset int) ([]models.GiftTransaction, error) {
	var gifts []models.GiftTransaction
	err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&gifts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list gift transactions: %w", err)
	}
	return gifts, nil
}

func (r *ledgerRepository) GetRewardsBalance(userID uint) (*models.RewardsBalance, error) {
	var balance models.RewardsBalance
	if err := r.db.Where("user_id = ?", userID).First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBalanceNotFound
		}
		return nil, fmt.Errorf("failed to get rewards balance: %w", err)
	}
	return &balance, nil
}

func (r *ledgerRepository) AddPoints(userID uint, points int64) (*models.RewardsBalance, error) {
	result := r.db.Model(&models.RewardsBalance{}).
		Where("user_id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", points))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to add points: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		balance := &models.RewardsBalance{UserID: userID, Points: points}
		if err := r.db.Create(balance).Error; err != nil {
			// A concurrent earn may have created the row first; retry the
			// increment once before giving up.
			retry := r.db.Model(&models.RewardsBalance{}).
				Where("user_id = ?", userID).
				UpdateColumn("points", gorm.Expr("points + ?", points))
			if retry.Error != nil || retry.RowsAffected == 0 {
				return nil, fmt.Errorf("failed to create rewards balance: %w", err)
			}
		}
	}
	return r.GetRewardsBalance(userID)
}

func (r *ledgerRepository) SpendPoints(userID uint, points int64) (*models.RewardsBalance, error) {
	result := r.db.Model(&models.RewardsBalance{}).
		Where("user_id = ? AND points >= ?", userID, points).
		UpdateColumns(map[string]interface{}{
			"points":   gorm.Expr("points - ?", points),
			"redeemed": gorm.Expr("redeemed + ?", points),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to spend points: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetRewardsBalance(userID); err != nil {
			return nil, err
		}
		return nil, ErrInsufficientPoints
	}
	return r.GetRewardsBalance(userID)
}

func (r *ledgerRepository) CreateHistoryEntry(entry *models.RewardsHistoryEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create rewards history entry: %w", err)
	}
	return nil
}

func (r *ledgerRepository) ListHistory(ctx context.Context, userID uint, limit, offset int) ([]models.RewardsHistoryEntry, error) {
	var entries []models.RewardsHistoryEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards history: %w", err)
	}
	return entries, nil
}

func (r *ledgerRepository) ManualPointsEarnedSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.RewardsHistoryEntry{}).
		Where("user_id = ? AND type = ? AND source = ? AND created_at >= ?",
			userID, models.RewardsTypeEarned, models.RewardsSourceManual, since).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum manual points: %w", err)
	}
	return total, nil
}

func (r *ledgerRepository) ExecuteInTransaction(fn func(LedgerRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &ledgerRepository{db: tx}
		return fn(txRepo)
	})
}
