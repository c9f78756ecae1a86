package repositories

import (
	"context"
	"time"

	"skillhub/internal/models"
)

// LedgerRepository is the persistence boundary for the gift and rewards
// engines: user lookups, wallet balances, gift transaction records and the
// points ledger. Balance mutations are atomic at the SQL level (never
// read-modify-write), and multi-document flows run inside
// ExecuteInTransaction so that partial state is never visible.
type LedgerRepository interface {
	// User lookups (read-only; account management lives in UserRepository)
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)

	// Wallet operations
	CreateWallet(wallet *models.Wallet) error
	GetWalletByID(id uint) (*models.Wallet, error)
	GetWalletByUserID(userID uint) (*models.Wallet, error)
	UpdateWallet(wallet *models.Wallet) error
	// CreditWallet / DebitWallet apply atomic increments. DebitWallet is
	// guarded: it fails with ErrInsufficientBalance instead of letting the
	// balance go negative.
	CreditWallet(walletID uint, amount int64) error
	DebitWallet(walletID uint, amount int64) error

	// Gift transaction operations
	CreateGift(gift *models.GiftTransaction) error
	GetGiftByTransactionID(transactionID string) (*models.GiftTransaction, error)
	UpdateGift(gift *models.GiftTransaction) error
	// MarkGiftCancelled atomically moves a gift from completed to cancelled.
	// A gift in any other status fails with ErrGiftStatusConflict, so two
	// concurrent cancellations can never both flip the record.
	MarkGiftCancelled(transactionID string, cancelledBy uint) error
	ListGiftsBySender(ctx context.Context, userID uint, limit, offset int) ([]models.GiftTransaction, error)
	ListGiftsByRecipient(ctx context.Context, userID uint, limit, offset int) ([]models.GiftTransaction, error)
	ListGiftsByUser(ctx context.Context, userID uint, limit, offset int) ([]models.GiftTransaction, error)

	// Rewards ledger operations
	GetRewardsBalance(userID uint) (*models.RewardsBalance, error)
	// AddPoints upserts the balance row and increments it atomically.
	AddPoints(userID uint, points int64) (*models.RewardsBalance, error)
	// SpendPoints atomically moves points from Points to Redeemed, failing
	// with ErrInsufficientPoints when the balance cannot cover the amount.
	SpendPoints(userID uint, points int64) (*models.RewardsBalance, error)
	CreateHistoryEntry(entry *models.RewardsHistoryEntry) error
	ListHistory(ctx context.Context, userID uint, limit, offset int) ([]models.RewardsHistoryEntry, error)
	ManualPointsEarnedSince(ctx context.Context, userID uint, since time.Time) (int64, error)

	// ExecuteInTransaction runs fn against a repository bound to a single
	// database transaction. fn returning an error rolls everything back.
	ExecuteInTransaction(fn func(LedgerRepository) error) error
}
