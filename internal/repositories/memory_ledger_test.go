package repositories

import (
	"sync"
	"testing"

	"skillhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLedgerTransactionRollback(t *testing.T) {
	ledger := NewMemoryLedger()
	require.NoError(t, ledger.CreateWallet(&models.Wallet{UserID: 1, Balance: 100}))

	err := ledger.ExecuteInTransaction(func(tx LedgerRepository) error {
		if err := tx.DebitWallet(1, 50); err != nil {
			return err
		}
		if err := tx.CreateGift(&models.GiftTransaction{TransactionID: "GIFT-x", SenderID: 1, RecipientID: 2, Amount: 50}); err != nil {
			return err
		}
		// Debiting a missing wallet aborts the whole unit.
		return tx.DebitWallet(999, 1)
	})
	assert.ErrorIs(t, err, ErrWalletNotFound)

	wallet, err := ledger.GetWalletByID(1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), wallet.Balance)

	_, err = ledger.GetGiftByTransactionID("GIFT-x")
	assert.ErrorIs(t, err, ErrGiftNotFound)
}

func TestMemoryLedgerMatchesGuardSemantics(t *testing.T) {
	ledger := NewMemoryLedger()
	require.NoError(t, ledger.CreateWallet(&models.Wallet{UserID: 1, Balance: 10}))

	assert.ErrorIs(t, ledger.DebitWallet(1, 11), ErrInsufficientBalance)
	assert.ErrorIs(t, ledger.DebitWallet(99, 1), ErrWalletNotFound)
	assert.ErrorIs(t, ledger.CreditWallet(99, 1), ErrWalletNotFound)
	assert.ErrorIs(t, ledger.CreateWallet(&models.Wallet{UserID: 1}), ErrDuplicateWallet)

	_, err := ledger.GetRewardsBalance(1)
	assert.ErrorIs(t, err, ErrBalanceNotFound)
	_, err = ledger.SpendPoints(1, 1)
	assert.ErrorIs(t, err, ErrBalanceNotFound)

	_, err = ledger.AddPoints(1, 5)
	require.NoError(t, err)
	_, err = ledger.SpendPoints(1, 6)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	require.NoError(t, ledger.CreateGift(&models.GiftTransaction{
		TransactionID: "GIFT-p", SenderID: 1, RecipientID: 2, Amount: 1,
		Status: models.GiftStatusPending,
	}))
	assert.ErrorIs(t, ledger.MarkGiftCancelled("GIFT-p", 1), ErrGiftStatusConflict)
	assert.ErrorIs(t, ledger.MarkGiftCancelled("GIFT-missing", 1), ErrGiftNotFound)
}

func TestMemoryLedgerConcurrentTransactions(t *testing.T) {
	ledger := NewMemoryLedger()
	require.NoError(t, ledger.CreateWallet(&models.Wallet{UserID: 1, Balance: 0}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := ledger.ExecuteInTransaction(func(tx LedgerRepository) error {
				return tx.CreditWallet(1, 5)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	wallet, err := ledger.GetWalletByID(1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), wallet.Balance)
}
