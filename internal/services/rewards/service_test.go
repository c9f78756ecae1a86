package rewards

import (
	"context"
	"sync"
	"testing"
	"time"

	"skillhub/internal/models"
	"skillhub/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testWalletID = uint(1)

func newTestLedger(t *testing.T) *repositories.MemoryLedger {
	t.Helper()
	ledger := repositories.NewMemoryLedger()
	ledger.AddUser(&models.User{Model: gorm.Model{ID: 1}, Email: "alice@example.com", Name: "Alice"})
	require.NoError(t, ledger.CreateWallet(&models.Wallet{
		UserID:  1,
		Balance: 0,
		Status:  models.WalletStatusActive,
	}))
	return ledger
}

func TestEarnPoints(t *testing.T) {
	ctx := context.Background()

	t.Run("manual earn credits the balance and writes history", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})

		balance, err := service.EarnPoints(ctx, 1, EarnRequest{
			Points:      50,
			WalletID:    testWalletID,
			Source:      models.RewardsSourceManual,
			Description: "Completed daily lesson",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(50), balance.Points)

		history, err := service.GetHistory(ctx, 1, 20, 0)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, models.RewardsTypeEarned, history[0].Type)
		assert.Equal(t, models.RewardsSourceManual, history[0].Source)
		assert.Equal(t, int64(50), history[0].Points)
	})

	t.Run("daily manual cap blocks the overflow earn", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})

		earn := func(points int64) error {
			_, err := service.EarnPoints(ctx, 1, EarnRequest{
				Points:   points,
				WalletID: testWalletID,
				Source:   models.RewardsSourceManual,
			})
			return err
		}

		require.NoError(t, earn(50))
		require.NoError(t, earn(50))
		assert.ErrorIs(t, earn(1), ErrDailyCapExceeded)

		// The failed earn must leave no trace.
		balance, err := service.GetBalance(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(100), balance.Points)
		history, err := service.GetHistory(ctx, 1, 20, 0)
		require.NoError(t, err)
		assert.Len(t, history, 2)
	})

	t.Run("system-granted sources are exempt from the cap", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})

		balance, err := service.EarnPoints(ctx, 1, EarnRequest{
			Points:   500,
			WalletID: testWalletID,
			Source:   models.RewardsSourceWalletTopUp,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(500), balance.Points)
	})

	t.Run("yesterday's manual earnings do not count against today", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})

		require.NoError(t, ledger.CreateHistoryEntry(&models.RewardsHistoryEntry{
			UserID:    1,
			Type:      models.RewardsTypeEarned,
			Points:    100,
			WalletID:  testWalletID,
			Source:    models.RewardsSourceManual,
			CreatedAt: time.Now().Add(-25 * time.Hour),
		}))

		_, err := service.EarnPoints(ctx, 1, EarnRequest{
			Points:   100,
			WalletID: testWalletID,
			Source:   models.RewardsSourceManual,
		})
		assert.NoError(t, err)
	})

	t.Run("invalid input", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})

		_, err := service.EarnPoints(ctx, 1, EarnRequest{Points: 0, WalletID: testWalletID, Source: models.RewardsSourceManual})
		assert.ErrorIs(t, err, ErrInvalidPoints)

		_, err = service.EarnPoints(ctx, 1, EarnRequest{Points: -10, WalletID: testWalletID, Source: models.RewardsSourceManual})
		assert.ErrorIs(t, err, ErrInvalidPoints)

		_, err = service.EarnPoints(ctx, 1, EarnRequest{Points: 10, Source: models.RewardsSourceManual})
		assert.ErrorIs(t, err, ErrWalletRequired)
	})

	t.Run("concurrent manual earns cannot jointly overshoot the cap", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})

		var wg sync.WaitGroup
		results := make(chan error, 4)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := service.EarnPoints(ctx, 1, EarnRequest{
					Points:   50,
					WalletID: testWalletID,
					Source:   models.RewardsSourceManual,
				})
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		var capped int
		for err := range results {
			if err != nil {
				assert.ErrorIs(t, err, ErrDailyCapExceeded)
				capped++
			}
		}
		assert.Equal(t, 2, capped)

		balance, err := service.GetBalance(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(100), balance.Points)
	})

	t.Run("concurrent earns lose no updates", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := service.EarnPoints(ctx, 1, EarnRequest{
					Points:   10,
					WalletID: testWalletID,
					Source:   models.RewardsSourceWalletTopUp,
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		balance, err := service.GetBalance(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(100), balance.Points)

		history, err := service.GetHistory(ctx, 1, 100, 0)
		require.NoError(t, err)
		assert.Len(t, history, 10)
	})
}

func TestRedeemPoints(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, ledger *repositories.MemoryLedger, points int64) {
		t.Helper()
		_, err := ledger.AddPoints(1, points)
		require.NoError(t, err)
	}

	t.Run("redemption moves points to the redeemed total", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})
		seed(t, ledger, 100)

		result, err := service.RedeemPoints(ctx, 1, 40, testWalletID, models.RewardsSourceManual)
		require.NoError(t, err)
		assert.Equal(t, int64(60), result.RemainingPoints)

		balance, err := service.GetBalance(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(60), balance.Points)
		assert.Equal(t, int64(40), balance.Redeemed)
	})

	t.Run("overdraw is rejected", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})
		seed(t, ledger, 30)

		_, err := service.RedeemPoints(ctx, 1, 31, testWalletID, models.RewardsSourceManual)
		assert.ErrorIs(t, err, ErrInsufficientPoints)
	})

	t.Run("user without a balance row is treated as zero", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})

		_, err := service.RedeemPoints(ctx, 1, 10, testWalletID, models.RewardsSourceManual)
		assert.ErrorIs(t, err, ErrInsufficientPoints)
	})

	t.Run("invalid input", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})

		_, err := service.RedeemPoints(ctx, 1, 0, testWalletID, models.RewardsSourceManual)
		assert.ErrorIs(t, err, ErrInvalidPoints)

		_, err = service.RedeemPoints(ctx, 1, 10, 0, models.RewardsSourceManual)
		assert.ErrorIs(t, err, ErrWalletRequired)
	})
}

func TestConvertPointsToIMoney(t *testing.T) {
	ctx := context.Background()

	t.Run("exact tier converts and credits the wallet atomically", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})
		_, err := ledger.AddPoints(1, 250)
		require.NoError(t, err)

		result, err := service.ConvertPointsToIMoney(ctx, 1, 200, testWalletID)
		require.NoError(t, err)
		assert.Equal(t, int64(200), result.PointsDeducted)
		assert.Equal(t, int64(25), result.IMoneyCredited)
		assert.Equal(t, int64(50), result.RemainingPoints)

		wallet, err := ledger.GetWalletByID(testWalletID)
		require.NoError(t, err)
		assert.Equal(t, int64(25), wallet.Balance)

		history, err := service.GetHistory(ctx, 1, 20, 0)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, models.RewardsSourcePointsToIMoney, history[0].Source)
	})

	t.Run("non-tier amount is rejected", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})
		_, err := ledger.AddPoints(1, 250)
		require.NoError(t, err)

		_, err = service.ConvertPointsToIMoney(ctx, 1, 250, testWalletID)
		assert.ErrorIs(t, err, ErrInvalidTierAmount)

		wallet, err := ledger.GetWalletByID(testWalletID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), wallet.Balance)
	})

	t.Run("insufficient points for the tier", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})
		_, err := ledger.AddPoints(1, 250)
		require.NoError(t, err)

		_, err = service.ConvertPointsToIMoney(ctx, 1, 300, testWalletID)
		assert.ErrorIs(t, err, ErrInsufficientPoints)
	})

	t.Run("every default tier pays its fixed amount", func(t *testing.T) {
		expected := map[int64]int64{100: 10, 200: 25, 300: 40, 400: 55}
		for points, imoney := range expected {
			ledger := newTestLedger(t)
			service := NewService(ledger, nil, Config{})
			_, err := ledger.AddPoints(1, points)
			require.NoError(t, err)

			result, err := service.ConvertPointsToIMoney(ctx, 1, points, testWalletID)
			require.NoError(t, err)
			assert.Equal(t, imoney, result.IMoneyCredited)
		}
	})
}

func TestGetConversionInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("no points means nothing to convert", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})

		info, err := service.GetConversionInfo(ctx, 1)
		require.NoError(t, err)
		assert.False(t, info.CanConvert)
		assert.Empty(t, info.AffordableTiers)
		assert.Nil(t, info.BestTier)
	})

	t.Run("best tier is the largest affordable one", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})
		_, err := ledger.AddPoints(1, 250)
		require.NoError(t, err)

		info, err := service.GetConversionInfo(ctx, 1)
		require.NoError(t, err)
		assert.True(t, info.CanConvert)
		assert.Len(t, info.AffordableTiers, 2)
		require.NotNil(t, info.BestTier)
		assert.Equal(t, int64(200), info.BestTier.Points)
		assert.Equal(t, int64(25), info.BestTier.IMoney)
	})
}

func TestEarnWrappers(t *testing.T) {
	ctx := context.Background()

	t.Run("top-up earns one point per ten iMoney", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})

		balance, err := service.EarnPointsForTopUp(ctx, 1, testWalletID, 95)
		require.NoError(t, err)
		assert.Equal(t, int64(9), balance.Points)
	})

	t.Run("small amounts still earn the minimum point", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})

		balance, err := service.EarnPointsForTopUp(ctx, 1, testWalletID, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(1), balance.Points)
	})

	t.Run("skill purchase divisor", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})

		balance, err := service.EarnPointsForSkillPurchase(ctx, 1, testWalletID, 100, "skill-42")
		require.NoError(t, err)
		assert.Equal(t, int64(5), balance.Points)

		history, err := service.GetHistory(ctx, 1, 20, 0)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, models.RewardsSourceSkillPurchase, history[0].Source)
		assert.Equal(t, "skill-42", history[0].RelatedID)
	})

	t.Run("challenge purchase divisor", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})

		balance, err := service.EarnPointsForChallengePurchase(ctx, 1, testWalletID, 45, "challenge-7")
		require.NoError(t, err)
		assert.Equal(t, int64(3), balance.Points)
	})

	t.Run("custom top-up bonus", func(t *testing.T) {
		ledger := newTestLedger(t)
		service := NewService(ledger, nil, Config{})

		balance, err := service.EarnCustomPointsForTopUp(ctx, 1, testWalletID, 75, "promo bonus")
		require.NoError(t, err)
		assert.Equal(t, int64(75), balance.Points)
	})
}

func TestLocalMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	at := time.Date(2025, 6, 15, 23, 45, 0, 0, loc)
	midnight := localMidnight(at)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, loc), midnight)
}
