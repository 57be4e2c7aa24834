package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksim/src/models"
	"stocksim/src/repositories"
)

func TestTradeRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewTradeRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 6, 7, 12, 0, 0, 0, time.UTC)

	t.Run("create assigns increasing ids", func(t *testing.T) {
		first := &models.Trade{
			UserID: 1, Symbol: "AAPL", Type: models.TradeTypeBuy,
			Shares: 10, Price: 100, Timestamp: base,
		}
		require.NoError(t, repo.Create(ctx, nil, first))
		require.NotZero(t, first.ID)

		second := &models.Trade{
			UserID: 1, Symbol: "AAPL", Type: models.TradeTypeSell,
			Shares: 4, Price: 120, PnL: 80, Timestamp: base.Add(time.Minute),
		}
		require.NoError(t, repo.Create(ctx, nil, second))
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("list recent is newest first and round-trips fields", func(t *testing.T) {
		trades, err := repo.ListRecent(ctx, 1, 50)
		require.NoError(t, err)
		require.Len(t, trades, 2)

		sell := trades[0]
		assert.Equal(t, models.TradeTypeSell, sell.Type)
		assert.Equal(t, int64(4), sell.Shares)
		assert.Equal(t, 120.0, sell.Price)
		assert.Equal(t, 80.0, sell.PnL)
		assert.True(t, sell.Timestamp.Equal(base.Add(time.Minute)))

		assert.Equal(t, models.TradeTypeBuy, trades[1].Type)
	})

	t.Run("list recent honors the limit", func(t *testing.T) {
		trades, err := repo.ListRecent(ctx, 1, 1)
		require.NoError(t, err)
		require.Len(t, trades, 1)
		assert.Equal(t, models.TradeTypeSell, trades[0].Type)
	})

	t.Run("list recent is scoped to the user", func(t *testing.T) {
		trades, err := repo.ListRecent(ctx, 2, 50)
		require.NoError(t, err)
		assert.Empty(t, trades)
	})

	t.Run("sum realized pnl counts only sells", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, nil, &models.Trade{
			UserID: 1, Symbol: "MSFT", Type: models.TradeTypeSell,
			Shares: 2, Price: 90, PnL: -20, Timestamp: base.Add(2 * time.Minute),
		}))

		total, err := repo.SumRealizedPnL(ctx, 1)
		require.NoError(t, err)
		assert.InDelta(t, 60.0, total, 1e-9)
	})

	t.Run("sum realized pnl is zero for an empty log", func(t *testing.T) {
		total, err := repo.SumRealizedPnL(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 0.0, total)
	})
}
