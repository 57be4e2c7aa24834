package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"stocksim/src/clients/marketdata"
	"stocksim/src/clients/ollama"
	"stocksim/src/schemas"
	"stocksim/src/utils"
)

const (
	forecastLags        = 10
	minHistoryPoints    = 50
	historyLookbackDays = 756
	DefaultForecastDays = 60
	MaxForecastDays     = 365
	forecastCacheTTL    = 15 * time.Minute
)

type ForecastServiceI interface {
	GetForecast(ctx context.Context, symbol string, days int) (*schemas.ForecastResponse, error)
}

// ForecastService projects daily closes forward with a lag-feature
// autoregression and asks the text-generation client for a narrative
// explanation of the projected trend.
type ForecastService struct {
	marketDataClient marketdata.MarketDataClientI
	ollamaClient     ollama.OllamaClientI
	cache            ForecastCache
}

func NewForecastService(marketDataClient marketdata.MarketDataClientI, ollamaClient ollama.OllamaClientI, cache ForecastCache) *ForecastService {
	return &ForecastService{
		marketDataClient: marketDataClient,
		ollamaClient:     ollamaClient,
		cache:            cache,
	}
}

func (s *ForecastService) GetForecast(ctx context.Context, symbol string, days int) (*schemas.ForecastResponse, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if days <= 0 {
		days = DefaultForecastDays
	}
	if days > MaxForecastDays {
		return nil, utils.UnprocessableEntity(fmt.Sprintf("days must be at most %d", MaxForecastDays))
	}

	key := fmt.Sprintf("forecast:%s:%d", symbol, days)
	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached, nil
	}

	candles, err := s.marketDataClient.GetDailyHistory(ctx, resolveSymbol(symbol), historyLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("fetch price history: %w", err)
	}
	if len(candles) < minHistoryPoints {
		return nil, utils.BadRequest("not enough price history to forecast")
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	frame := buildLagFrame(closes, forecastLags)
	theta, err := fitLagModel(frame, forecastLags)
	if err != nil {
		return nil, fmt.Errorf("fit forecast model: %w", err)
	}

	// Iterate one business day at a time, feeding each prediction back into
	// the lag window.
	window := make([]float64, forecastLags)
	for i := 0; i < forecastLags; i++ {
		window[i] = closes[len(closes)-1-i]
	}
	current := candles[len(candles)-1].Date

	dates := make([]string, 0, days)
	prices := make([]float64, 0, days)
	for i := 0; i < days; i++ {
		next := predictNext(theta, window)
		current = nextBusinessDay(current)
		dates = append(dates, current.Format("2006-01-02"))
		prices = append(prices, math.Round(next*100)/100)

		copy(window[1:], window[:len(window)-1])
		window[0] = next
	}

	resp := &schemas.ForecastResponse{
		Dates:       dates,
		Prices:      prices,
		Explanation: s.explain(ctx, symbol, candles, dates, prices, days),
	}
	s.cache.Set(ctx, key, resp, forecastCacheTTL)
	return resp, nil
}

// explain builds the trend prompt and degrades to an error marker string
// when the text-generation service is unavailable, matching the behavior of
// the forecast endpoint: the projection is still returned.
func (s *ForecastService) explain(ctx context.Context, symbol string, candles []marketdata.Candle, dates []string, prices []float64, days int) string {
	recent := candles
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}

	var history strings.Builder
	for _, c := range recent {
		fmt.Fprintf(&history, "%s: %.2f\n", c.Date.Format("2006-01-02"), c.Close)
	}
	var forecast strings.Builder
	for i := range dates {
		fmt.Fprintf(&forecast, "%s: %.2f\n", dates[i], prices[i])
	}
	pctChange := (prices[len(prices)-1] - prices[0]) / prices[0] * 100

	prompt := fmt.Sprintf(`You are an AI that explains stock trends in simple English.
Do NOT give financial advice.

Symbol: %s

Recent prices:
%s
Next %d days forecast:
%s
Predicted Change: %.2f%%

Explain:
- Trend (up, down, sideways)
- Why it might happen
- Risks and uncertainties
`, symbol, history.String(), days, forecast.String(), pctChange)

	explanation, err := s.ollamaClient.Generate(ctx, prompt)
	if err != nil {
		utils.LoggerFromContext(ctx).Warnf("explanation generation failed: %v", err)
		return fmt.Sprintf("[Ollama Error] %v", err)
	}
	return explanation
}

// resolveSymbol maps UI symbols to provider symbols.
func resolveSymbol(symbol string) string {
	if symbol == "NIFTY" {
		return "^NSEI"
	}
	return symbol
}
