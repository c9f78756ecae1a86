package gift

import (
	"context"
	"fmt"
	"log"
	"time"

	"skillhub/internal/models"
	"skillhub/internal/repositories"

	"github.com/google/uuid"
)

type service struct {
	ledger   repositories.LedgerRepository
	notifier Notifier
	cache    WalletCache
	config   Config
}

// NewService creates a new gift transfer service. notifier and cache are
// optional.
func NewService(ledger repositories.LedgerRepository, notifier Notifier, cache WalletCache, config Config) Service {
	if ledger == nil {
		panic("ledger is required")
	}

	if config.MinAmount == 0 {
		config.MinAmount = DefaultMinAmount
	}
	if config.MaxAmount == 0 {
		config.MaxAmount = DefaultMaxAmount
	}
	if config.MaxMessageLen == 0 {
		config.MaxMessageLen = DefaultMaxMessageLen
	}
	if config.CancelWindow == 0 {
		config.CancelWindow = DefaultCancelWindow
	}

	return &service{
		ledger:   ledger,
		notifier: notifier,
		cache:    cache,
		config:   config,
	}
}

// SendGift moves req.Amount from the sender's wallet to the recipient's as a
// single atomic unit. Validation is fail-fast: each precondition produces its
// own error and nothing is mutated until all of them pass.
func (s *service) SendGift(ctx context.Context, senderID uint, req SendGiftRequest) (*GiftResult, error) {
	sender, err := s.ledger.GetUserByID(senderID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, ErrSenderNotFound
		}
		return nil, fmt.Errorf("failed to load sender: %w", err)
	}

	recipient, err := s.ledger.GetUserByEmail(req.RecipientEmail)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("failed to load recipient: %w", err)
	}

	recipientWallet, err := s.ledger.GetWalletByUserID(recipient.ID)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return nil, ErrRecipientWalletNotFound
		}
		return nil, fmt.Errorf("failed to load recipient wallet: %w", err)
	}
	if !recipientWallet.IsActive() {
		return nil, ErrRecipientWalletInactive
	}

	if sender.ID == recipient.ID {
		return nil, ErrSelfGift
	}

	senderWallet, err := s.ledger.GetWalletByUserID(sender.ID)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return nil, ErrSenderWalletNotFound
		}
		return nil, fmt.Errorf("failed to load sender wallet: %w", err)
	}
	if !senderWallet.IsActive() {
		return nil, ErrSenderWalletInactive
	}
	if senderWallet.Balance < req.Amount {
		return nil, ErrInsufficientBalance
	}

	if req.Amount < s.config.MinAmount || req.Amount > s.config.MaxAmount {
		return nil, fmt.Errorf("%w: must be between %d and %d", ErrInvalidAmount, s.config.MinAmount, s.config.MaxAmount)
	}
	if len(req.Message) > s.config.MaxMessageLen {
		return nil, fmt.Errorf("%w: at most %d characters", ErrMessageTooLong, s.config.MaxMessageLen)
	}

	reason := req.Reason
	if reason == "" {
		reason = models.GiftReasonOther
	}

	gift := &models.GiftTransaction{
		TransactionID:  "GIFT-" + uuid.NewString(),
		SenderID:       sender.ID,
		SenderName:     sender.Name,
		SenderEmail:    sender.Email,
		RecipientID:    recipient.ID,
		RecipientName:  recipient.Name,
		RecipientEmail: recipient.Email,
		Amount:         req.Amount,
		Message:        req.Message,
		Reason:         reason,
		Status:         models.GiftStatusPending,
		Metadata: models.JSON{
			"sender_balance_before":    senderWallet.Balance,
			"recipient_balance_before": recipientWallet.Balance,
		},
	}

	err = s.ledger.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		if err := tx.CreateGift(gift); err != nil {
			return err
		}
		if err := tx.DebitWallet(senderWallet.ID, req.Amount); err != nil {
			return err
		}
		if err := tx.CreditWallet(recipientWallet.ID, req.Amount); err != nil {
			return err
		}
		now := time.Now()
		gift.Status = models.GiftStatusCompleted
		gift.CompletedAt = &now
		return tx.UpdateGift(gift)
	})
	if err != nil {
		if err == repositories.ErrInsufficientBalance {
			return nil, ErrInsufficientBalance
		}
		log.Printf("gift transfer %s failed: %v", gift.TransactionID, err)
		return nil, ErrTransferFailed
	}

	s.invalidateWallets(ctx, gift.SenderID, gift.RecipientID)

	senderBalance, recipientBalance := s.balancesAfter(senderWallet.ID, recipientWallet.ID, senderWallet, recipientWallet)

	s.notifyAsync(gift.SenderID, EventGiftSent, gift)
	s.notifyAsync(gift.RecipientID, EventGiftReceived, gift)

	return &GiftResult{
		Message:          fmt.Sprintf("Gift of %d iMoney sent to %s", gift.Amount, gift.RecipientName),
		Transaction:      gift,
		SenderBalance:    senderBalance,
		RecipientBalance: recipientBalance,
	}, nil
}

// CancelGift reverses a completed transfer. Only the original sender may
// cancel, and only within the cancellation window; the reversal debits the
// recipient with the same guarded atomic update a transfer uses, so a second
// cancellation or a drained recipient wallet cannot double-move funds.
func (s *service) CancelGift(ctx context.Context, transactionID string, requestingUserID uint) (*CancelResult, error) {
	gift, err := s.ledger.GetGiftByTransactionID(transactionID)
	if err != nil {
		if err == repositories.ErrGiftNotFound {
			return nil, ErrGiftNotFound
		}
		return nil, fmt.Errorf("failed to load gift transaction: %w", err)
	}

	if gift.SenderID != requestingUserID {
		return nil, ErrNotGiftSender
	}
	switch gift.Status {
	case models.GiftStatusCompleted:
		// cancellable
	case models.GiftStatusCancelled:
		return nil, ErrGiftAlreadyCancelled
	default:
		return nil, ErrGiftNotCancellable
	}
	if time.Since(gift.CreatedAt) > s.config.CancelWindow {
		return nil, ErrCancellationWindowExpired
	}

	var senderWallet, recipientWallet *models.Wallet
	err = s.ledger.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		// Status transition first: a concurrent cancellation that already
		// flipped the record turns this into a conflict instead of a second
		// reversal.
		if err := tx.MarkGiftCancelled(gift.TransactionID, requestingUserID); err != nil {
			return err
		}
		var err error
		senderWallet, err = tx.GetWalletByUserID(gift.SenderID)
		if err != nil {
			return err
		}
		recipientWallet, err = tx.GetWalletByUserID(gift.RecipientID)
		if err != nil {
			return err
		}
		if err := tx.DebitWallet(recipientWallet.ID, gift.Amount); err != nil {
			return err
		}
		return tx.CreditWallet(senderWallet.ID, gift.Amount)
	})
	if err != nil {
		switch err {
		case repositories.ErrInsufficientBalance:
			return nil, fmt.Errorf("%w: recipient no longer holds the gifted amount", ErrGiftNotCancellable)
		case repositories.ErrGiftStatusConflict:
			return nil, ErrGiftAlreadyCancelled
		default:
			log.Printf("gift cancellation %s failed: %v", gift.TransactionID, err)
			return nil, ErrTransferFailed
		}
	}

	if updated, err := s.ledger.GetGiftByTransactionID(gift.TransactionID); err == nil {
		gift = updated
	}

	s.invalidateWallets(ctx, gift.SenderID, gift.RecipientID)

	senderBalance, recipientBalance := s.balancesAfter(senderWallet.ID, recipientWallet.ID, senderWallet, recipientWallet)

	s.notifyAsync(gift.SenderID, EventGiftCancelled, gift)
	s.notifyAsync(gift.RecipientID, EventGiftCancelled, gift)

	return &CancelResult{
		Message:          fmt.Sprintf("Gift %s cancelled, %d iMoney returned", gift.TransactionID, gift.Amount),
		Transaction:      gift,
		SenderBalance:    senderBalance,
		RecipientBalance: recipientBalance,
	}, nil
}

func (s *service) GetHistory(ctx context.Context, userID uint, limit, offset int) ([]models.GiftTransaction, error) {
	return s.ledger.ListGiftsByUser(ctx, userID, normalizeLimit(limit), offset)
}

func (s *service) GetSent(ctx context.Context, userID uint, limit, offset int) ([]models.GiftTransaction, error) {
	return s.ledger.ListGiftsBySender(ctx, userID, normalizeLimit(limit), offset)
}

func (s *service) GetReceived(ctx context.Context, userID uint, limit, offset int) ([]models.GiftTransaction, error) {
	return s.ledger.ListGiftsByRecipient(ctx, userID, normalizeLimit(limit), offset)
}

// balancesAfter re-reads both wallets so the result reflects the committed
// state. A read failure here must not fail the already-committed operation.
func (s *service) balancesAfter(senderWalletID, recipientWalletID uint, senderFallback, recipientFallback *models.Wallet) (int64, int64) {
	senderBalance := senderFallback.Balance
	recipientBalance := recipientFallback.Balance
	if w, err := s.ledger.GetWalletByID(senderWalletID); err == nil {
		senderBalance = w.Balance
	}
	if w, err := s.ledger.GetWalletByID(recipientWalletID); err == nil {
		recipientBalance = w.Balance
	}
	return senderBalance, recipientBalance
}

// invalidateWallets drops cached balances for both parties after a committed
// transfer so the next read sees the new values.
func (s *service) invalidateWallets(ctx context.Context, userIDs ...uint) {
	if s.cache == nil {
		return
	}
	for _, userID := range userIDs {
		if err := s.cache.InvalidateWallet(ctx, userID); err != nil {
			log.Printf("failed to invalidate wallet cache for user %d: %v", userID, err)
		}
	}
}

func (s *service) notifyAsync(userID uint, event string, gift *models.GiftTransaction) {
	if s.notifier == nil {
		return
	}
	payload := map[string]interface{}{
		"transaction_id": gift.TransactionID,
		"sender_name":    gift.SenderName,
		"recipient_name": gift.RecipientName,
		"amount":         gift.Amount,
		"reason":         gift.Reason,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.notifier.Notify(ctx, userID, event, payload); err != nil {
			log.Printf("gift notification %s to user %d failed: %v", event, userID, err)
		}
	}()
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}
