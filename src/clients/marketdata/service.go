// Package marketdata fetches daily close history from the configured price
// history gateway.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"stocksim/src/config"
	"stocksim/src/utils"
	"stocksim/src/utils/requests"
)

type Candle struct {
	Date  time.Time
	Close float64
}

type candleSchema struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

type historySchema struct {
	Symbol  string         `json:"symbol"`
	Candles []candleSchema `json:"candles"`
}

type MarketDataClientI interface {
	GetDailyHistory(ctx context.Context, symbol string, days int) ([]Candle, error)
}

type MarketDataClient struct {
	baseURL string
	api     *requests.ExternalAPIService
}

func NewClient(cfg *config.Config) *MarketDataClient {
	return &MarketDataClient{
		baseURL: cfg.ExternalClients.MarketData.BaseURL,
		api:     requests.NewExternalAPIService(30 * time.Second),
	}
}

// GetDailyHistory returns up to days daily closes for symbol, oldest first.
func (c *MarketDataClient) GetDailyHistory(ctx context.Context, symbol string, days int) ([]Candle, error) {
	params := url.Values{}
	params.Set("days", strconv.Itoa(days))

	resp, err := c.api.Get(ctx, fmt.Sprintf("%s/api/v1/history/%s", c.baseURL, url.PathEscape(symbol)), params)
	if err != nil {
		return nil, fmt.Errorf("market data request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, utils.NewHTTPError(resp.StatusCode, fmt.Sprintf("market data service returned %s for %s", resp.Status, symbol))
	}

	var history historySchema
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		return nil, fmt.Errorf("decode market data response: %w", err)
	}

	candles := make([]Candle, 0, len(history.Candles))
	for _, c := range history.Candles {
		date, err := time.Parse("2006-01-02", c.Date)
		if err != nil {
			return nil, fmt.Errorf("bad candle date %q: %w", c.Date, err)
		}
		candles = append(candles, Candle{Date: date, Close: c.Close})
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Date.Before(candles[j].Date) })
	return candles, nil
}
