package schemas

type HoldingResponse struct {
	Symbol  string  `json:"symbol"`
	Shares  int64   `json:"shares"`
	AvgCost float64 `json:"avg_cost"`
}

type TradeResponse struct {
	ID        int64   `json:"id"`
	Symbol    string  `json:"symbol"`
	Type      string  `json:"type"`
	Shares    int64   `json:"shares"`
	Price     float64 `json:"price"`
	PnL       float64 `json:"pnl"`
	Timestamp string  `json:"timestamp"`
}

// PortfolioResponse is the read-only projection of a user's ledger: current
// holdings, the 50 most recent trades (newest first) and the cumulative
// realized PnL over all SELL trades.
type PortfolioResponse struct {
	Holdings    []HoldingResponse `json:"holdings"`
	Trades      []TradeResponse   `json:"trades"`
	RealizedPnL float64           `json:"realized_pnl"`
}
