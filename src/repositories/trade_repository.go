package repositories

import (
	"context"
	"database/sql"

	"stocksim/src/models"
)

// TradeRepository is the append-only trade log. Rows are never updated or
// deleted; the assigned id is the log's total order.
type TradeRepository interface {
	Create(ctx context.Context, tx *sql.Tx, t *models.Trade) error
	ListRecent(ctx context.Context, userID int64, limit int) ([]models.Trade, error)
	SumRealizedPnL(ctx context.Context, userID int64) (float64, error)
}

type tradeRepo struct {
	db *sql.DB
}

func NewTradeRepository(db *sql.DB) TradeRepository {
	return &tradeRepo{db: db}
}

func (r *tradeRepo) q(tx *sql.Tx) queryer {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create appends the trade and fills in its assigned id.
func (r *tradeRepo) Create(ctx context.Context, tx *sql.Tx, t *models.Trade) error {
	return r.q(tx).QueryRowContext(ctx,
		`INSERT INTO trades (user_id, symbol, type, shares, price, pnl, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		t.UserID, t.Symbol, string(t.Type), t.Shares, t.Price, t.PnL, formatTime(t.Timestamp),
	).Scan(&t.ID)
}

// ListRecent returns up to limit trades for the user, newest first.
func (r *tradeRepo) ListRecent(ctx context.Context, userID int64, limit int) ([]models.Trade, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, symbol, type, shares, price, pnl, timestamp
		FROM trades
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		var tradeType, timestamp string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Symbol, &tradeType, &t.Shares, &t.Price, &t.PnL, &timestamp); err != nil {
			return nil, err
		}
		t.Type = models.TradeType(tradeType)
		t.Timestamp = parseTime(timestamp)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// SumRealizedPnL sums pnl over the user's SELL trades; 0 when there are none.
func (r *tradeRepo) SumRealizedPnL(ctx context.Context, userID int64) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(pnl), 0) FROM trades WHERE user_id = $1 AND type = 'SELL'`,
		userID,
	).Scan(&total)
	return total, err
}
