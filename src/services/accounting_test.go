package services

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightedAverageCost(t *testing.T) {
	t.Run("first buy sets basis to price", func(t *testing.T) {
		assert.InDelta(t, 100.0, weightedAverageCost(0, 0, 10, 100), 1e-9)
	})

	t.Run("documented example", func(t *testing.T) {
		avg := weightedAverageCost(10, 100, 10, 200)
		assert.InDelta(t, 150.0, avg, 1e-9)
	})

	t.Run("incremental equals batch average", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))

		for trial := 0; trial < 20; trial++ {
			n := 2 + rng.Intn(10)
			var shares int64
			var avg float64
			var totalCost, totalShares float64

			for i := 0; i < n; i++ {
				buyShares := int64(1 + rng.Intn(500))
				price := 1 + rng.Float64()*1000

				avg = weightedAverageCost(shares, avg, buyShares, price)
				shares += buyShares

				totalCost += float64(buyShares) * price
				totalShares += float64(buyShares)
			}

			assert.InDelta(t, totalCost/totalShares, avg, 1e-6)
		}
	})
}

func TestRealizedPnL(t *testing.T) {
	t.Run("gain", func(t *testing.T) {
		assert.InDelta(t, 150.0, realizedPnL(180, 150, 5), 1e-9)
	})

	t.Run("loss", func(t *testing.T) {
		assert.InDelta(t, -250.0, realizedPnL(100, 125, 10), 1e-9)
	})

	t.Run("flat", func(t *testing.T) {
		assert.InDelta(t, 0.0, realizedPnL(150, 150, 15), 1e-9)
	})

	t.Run("no float drift on cents", func(t *testing.T) {
		// 0.1 + 0.2 style inputs stay exact through the decimal path.
		assert.Equal(t, 0.3, realizedPnL(10.3, 10.0, 1)-realizedPnL(10.0, 10.0, 1))
	})
}
