package schemas

type TradeRequest struct {
	UserID int64   `json:"user_id"`
	Symbol string  `json:"symbol"`
	Type   string  `json:"type"`
	Shares int64   `json:"shares"`
	Price  float64 `json:"price"`
}

// TradeExecutionResponse returns the executed trade together with the
// refreshed projections so the caller does not need a second round trip.
type TradeExecutionResponse struct {
	Trade       TradeResponse     `json:"trade"`
	Trades      []TradeResponse   `json:"trades"`
	Holdings    []HoldingResponse `json:"holdings"`
	RealizedPnL float64           `json:"realized_pnl"`
}
