package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"stocksim/src/models"
)

// HoldingRepository is the durable (user_id, symbol) -> (shares, avg_cost)
// mapping. It never holds a row with shares <= 0; a position that reaches
// zero is deleted, not zeroed.
type HoldingRepository interface {
	Get(ctx context.Context, tx *sql.Tx, userID int64, symbol string) (*models.Holding, error)
	Upsert(ctx context.Context, tx *sql.Tx, h *models.Holding) error
	Reduce(ctx context.Context, tx *sql.Tx, userID int64, symbol string, remainingShares int64, updatedAt time.Time) error
	Delete(ctx context.Context, tx *sql.Tx, userID int64, symbol string) error
	GetAllByUserID(ctx context.Context, userID int64) ([]models.Holding, error)
	DistinctSymbols(ctx context.Context) ([]string, error)
}

type holdingRepo struct {
	db *sql.DB
}

func NewHoldingRepository(db *sql.DB) HoldingRepository {
	return &holdingRepo{db: db}
}

func (r *holdingRepo) q(tx *sql.Tx) queryer {
	if tx != nil {
		return tx
	}
	return r.db
}

// Get returns nil when the user has no open position in symbol.
func (r *holdingRepo) Get(ctx context.Context, tx *sql.Tx, userID int64, symbol string) (*models.Holding, error) {
	var h models.Holding
	var updatedAt string
	err := r.q(tx).QueryRowContext(ctx,
		`SELECT user_id, symbol, shares, avg_cost, updated_at
		FROM holdings
		WHERE user_id = $1 AND symbol = $2`,
		userID, symbol,
	).Scan(&h.UserID, &h.Symbol, &h.Shares, &h.AvgCost, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	h.UpdatedAt = parseTime(updatedAt)
	return &h, nil
}

func (r *holdingRepo) Upsert(ctx context.Context, tx *sql.Tx, h *models.Holding) error {
	_, err := r.q(tx).ExecContext(ctx,
		`INSERT INTO holdings (user_id, symbol, shares, avg_cost, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, symbol) DO UPDATE SET
			shares = excluded.shares,
			avg_cost = excluded.avg_cost,
			updated_at = excluded.updated_at`,
		h.UserID, h.Symbol, h.Shares, h.AvgCost, formatTime(h.UpdatedAt))
	return err
}

// Reduce updates the share count after a partial sell; avg_cost is unchanged.
func (r *holdingRepo) Reduce(ctx context.Context, tx *sql.Tx, userID int64, symbol string, remainingShares int64, updatedAt time.Time) error {
	_, err := r.q(tx).ExecContext(ctx,
		`UPDATE holdings SET shares = $1, updated_at = $2
		WHERE user_id = $3 AND symbol = $4`,
		remainingShares, formatTime(updatedAt), userID, symbol)
	return err
}

func (r *holdingRepo) Delete(ctx context.Context, tx *sql.Tx, userID int64, symbol string) error {
	_, err := r.q(tx).ExecContext(ctx,
		`DELETE FROM holdings WHERE user_id = $1 AND symbol = $2`,
		userID, symbol)
	return err
}

func (r *holdingRepo) GetAllByUserID(ctx context.Context, userID int64) ([]models.Holding, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, symbol, shares, avg_cost, updated_at
		FROM holdings
		WHERE user_id = $1
		ORDER BY symbol`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []models.Holding
	for rows.Next() {
		var h models.Holding
		var updatedAt string
		if err := rows.Scan(&h.UserID, &h.Symbol, &h.Shares, &h.AvgCost, &updatedAt); err != nil {
			return nil, err
		}
		h.UpdatedAt = parseTime(updatedAt)
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

// DistinctSymbols lists every symbol with at least one open position, used by
// the market data refresh task.
func (r *holdingRepo) DistinctSymbols(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM holdings ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}
