package models

import (
	"time"
)

// Holding is a user's open position in one symbol. A row exists only while
// shares > 0; a sell that exhausts the position deletes the row.
type Holding struct {
	UserID    int64     `db:"user_id"`
	Symbol    string    `db:"symbol"`
	Shares    int64     `db:"shares"`
	AvgCost   float64   `db:"avg_cost"`
	UpdatedAt time.Time `db:"updated_at"`
}
