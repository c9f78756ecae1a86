package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillhub/internal/models"
	"skillhub/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCharger struct {
	err     error
	charges []int64
}

func (f *fakeCharger) Charge(ctx context.Context, cardToken string, amount int64, description string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.charges = append(f.charges, amount)
	return "ch_test", nil
}

type fakeAwarder struct {
	awarded []int64
}

func (f *fakeAwarder) EarnPointsForTopUp(ctx context.Context, userID, walletID uint, amount int64) (*models.RewardsBalance, error) {
	f.awarded = append(f.awarded, amount)
	return &models.RewardsBalance{UserID: userID}, nil
}

func TestProvision(t *testing.T) {
	ctx := context.Background()
	ledger := repositories.NewMemoryLedger()
	service := NewService(ledger, nil, nil, nil, Config{})

	w, err := service.Provision(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), w.UserID)
	assert.Equal(t, int64(0), w.Balance)
	assert.Equal(t, models.WalletStatusActive, w.Status)

	_, err = service.Provision(ctx, 1)
	assert.ErrorIs(t, err, ErrWalletExists)
}

func TestGetWallet(t *testing.T) {
	ctx := context.Background()
	ledger := repositories.NewMemoryLedger()
	service := NewService(ledger, nil, nil, nil, Config{})

	_, err := service.GetWallet(ctx, 1)
	assert.ErrorIs(t, err, ErrWalletNotFound)

	_, err = service.Provision(ctx, 1)
	require.NoError(t, err)

	w, err := service.GetWallet(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), w.UserID)

	balance, err := service.GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestTopUp(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (Service, *repositories.MemoryLedger, *fakeCharger, *fakeAwarder) {
		t.Helper()
		ledger := repositories.NewMemoryLedger()
		charger := &fakeCharger{}
		awarder := &fakeAwarder{}
		service := NewService(ledger, nil, charger, awarder, Config{})
		_, err := service.Provision(ctx, 1)
		require.NoError(t, err)
		return service, ledger, charger, awarder
	}

	t.Run("successful top-up charges, credits and awards points", func(t *testing.T) {
		service, ledger, charger, awarder := setup(t)

		result, err := service.TopUp(ctx, 1, "tok_visa", 200)
		require.NoError(t, err)
		assert.Equal(t, int64(200), result.Amount)
		assert.Equal(t, int64(200), result.NewBalance)
		assert.Equal(t, []int64{200}, charger.charges)
		assert.Equal(t, []int64{200}, awarder.awarded)

		w, err := ledger.GetWalletByUserID(1)
		require.NoError(t, err)
		assert.Equal(t, int64(200), w.Balance)
	})

	t.Run("amount bounds", func(t *testing.T) {
		service, _, charger, _ := setup(t)

		_, err := service.TopUp(ctx, 1, "tok_visa", 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = service.TopUp(ctx, 1, "tok_visa", DefaultMaxTopUpAmount+1)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		assert.Empty(t, charger.charges)
	})

	t.Run("charge failure leaves the balance untouched", func(t *testing.T) {
		service, ledger, charger, awarder := setup(t)
		charger.err = errors.New("card declined")

		_, err := service.TopUp(ctx, 1, "tok_visa", 100)
		assert.ErrorIs(t, err, ErrChargeFailed)

		w, err := ledger.GetWalletByUserID(1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), w.Balance)
		assert.Empty(t, awarder.awarded)
	})

	t.Run("inactive wallet cannot top up", func(t *testing.T) {
		service, _, charger, _ := setup(t)
		require.NoError(t, service.Deactivate(ctx, 1, "user request"))

		_, err := service.TopUp(ctx, 1, "tok_visa", 100)
		assert.ErrorIs(t, err, ErrWalletInactive)
		assert.Empty(t, charger.charges)
	})

	t.Run("no charger configured", func(t *testing.T) {
		ledger := repositories.NewMemoryLedger()
		service := NewService(ledger, nil, nil, nil, Config{})
		_, err := service.Provision(ctx, 1)
		require.NoError(t, err)

		_, err = service.TopUp(ctx, 1, "tok_visa", 100)
		assert.ErrorIs(t, err, ErrChargeFailed)
	})
}

func TestDeactivateReactivate(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, wait time.Duration) (Service, *repositories.MemoryLedger) {
		t.Helper()
		ledger := repositories.NewMemoryLedger()
		service := NewService(ledger, nil, nil, nil, Config{ReactivationWait: wait})
		_, err := service.Provision(ctx, 1)
		require.NoError(t, err)
		return service, ledger
	}

	t.Run("deactivation records the reason and timestamp", func(t *testing.T) {
		service, ledger := setup(t, 0)

		require.NoError(t, service.Deactivate(ctx, 1, "lost device"))

		w, err := ledger.GetWalletByUserID(1)
		require.NoError(t, err)
		assert.Equal(t, models.WalletStatusInactive, w.Status)
		assert.Equal(t, "lost device", w.StatusReason)
		assert.NotNil(t, w.DeactivatedAt)

		assert.ErrorIs(t, service.Deactivate(ctx, 1, "again"), ErrWalletInactive)
	})

	t.Run("reactivation before the waiting period is rejected", func(t *testing.T) {
		service, _ := setup(t, 48*time.Hour)
		require.NoError(t, service.Deactivate(ctx, 1, "lost device"))

		assert.ErrorIs(t, service.Reactivate(ctx, 1), ErrReactivationTooSoon)
	})

	t.Run("reactivation after the waiting period succeeds", func(t *testing.T) {
		service, ledger := setup(t, 48*time.Hour)
		require.NoError(t, service.Deactivate(ctx, 1, "lost device"))

		// Backdate the deactivation past the waiting period.
		w, err := ledger.GetWalletByUserID(1)
		require.NoError(t, err)
		past := time.Now().Add(-49 * time.Hour)
		w.DeactivatedAt = &past
		require.NoError(t, ledger.UpdateWallet(w))

		require.NoError(t, service.Reactivate(ctx, 1))

		w, err = ledger.GetWalletByUserID(1)
		require.NoError(t, err)
		assert.Equal(t, models.WalletStatusActive, w.Status)
		assert.Empty(t, w.StatusReason)
		assert.Nil(t, w.DeactivatedAt)
	})

	t.Run("reactivating an active wallet is rejected", func(t *testing.T) {
		service, _ := setup(t, 0)
		assert.ErrorIs(t, service.Reactivate(ctx, 1), ErrWalletAlreadyActive)
	})

	t.Run("missing wallet", func(t *testing.T) {
		ledger := repositories.NewMemoryLedger()
		service := NewService(ledger, nil, nil, nil, Config{})
		assert.ErrorIs(t, service.Deactivate(ctx, 99, ""), ErrWalletNotFound)
		assert.ErrorIs(t, service.Reactivate(ctx, 99), ErrWalletNotFound)
	})
}
