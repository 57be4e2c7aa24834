package models

import (
	"time"
)

type TradeType string

const (
	TradeTypeBuy  TradeType = "BUY"
	TradeTypeSell TradeType = "SELL"
)

func (t TradeType) Valid() bool {
	return t == TradeTypeBuy || t == TradeTypeSell
}

// Trade is one executed BUY or SELL. Rows are append-only and never mutated;
// the id assigned at insertion is the total order of the log.
type Trade struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Symbol    string    `db:"symbol"`
	Type      TradeType `db:"type"`
	Shares    int64     `db:"shares"`
	Price     float64   `db:"price"`
	PnL       float64   `db:"pnl"`
	Timestamp time.Time `db:"timestamp"`
}
