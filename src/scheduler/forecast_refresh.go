package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"stocksim/src/repositories"
	"stocksim/src/services"
	"stocksim/src/utils"
)

const defaultRefreshSpec = "0 */6 * * *"

// NewForecastRefreshTask periodically re-forecasts every symbol with an open
// position so interactive requests hit a warm cache.
func NewForecastRefreshTask(cronSpec string, holdingRepository repositories.HoldingRepository, forecastService services.ForecastServiceI, logger *logrus.Logger) (*ScheduledTask, error) {
	if cronSpec == "" {
		cronSpec = defaultRefreshSpec
	}

	return NewScheduledTask("forecast-refresh", cronSpec, logger, func() {
		runID := uuid.NewString()
		ctx, cancel := context.WithTimeout(utils.WithLogger(context.Background(), logger), 30*time.Minute)
		defer cancel()

		symbols, err := holdingRepository.DistinctSymbols(ctx)
		if err != nil {
			logger.WithField("run_id", runID).Errorf("forecast refresh: list symbols: %v", err)
			return
		}

		for _, symbol := range symbols {
			if _, err := forecastService.GetForecast(ctx, symbol, services.DefaultForecastDays); err != nil {
				logger.WithFields(logrus.Fields{"run_id": runID, "symbol": symbol}).
					Warnf("forecast refresh failed: %v", err)
			}
		}
		logger.WithFields(logrus.Fields{"run_id": runID, "symbols": len(symbols)}).
			Info("forecast refresh completed")
	})
}
