package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"stocksim/src/models"
	"stocksim/src/repositories"
	"stocksim/src/schemas"
	"stocksim/src/utils"
)

// Business-rule rejections. Anything else coming out of the ledger is a
// storage fault and aborts the whole transaction.
var (
	ErrInvalidQuantity    = errors.New("shares must be positive")
	ErrInsufficientShares = errors.New("not enough shares to sell")
	ErrInvalidTradeType   = errors.New("trade type must be BUY or SELL")
)

type LedgerServiceI interface {
	ExecuteTrade(ctx context.Context, userID int64, symbol string, tradeType models.TradeType, shares int64, price float64) (*models.Trade, error)
	GetPortfolio(ctx context.Context, userID int64) (*schemas.PortfolioResponse, error)
}

// LedgerService mutates holdings and appends trades under one transaction
// per call, serialized per (user, symbol) so concurrent sells cannot both
// observe the same pre-trade share count.
type LedgerService struct {
	db                *sql.DB
	holdingRepository repositories.HoldingRepository
	tradeRepository   repositories.TradeRepository
	locks             *utils.KeyedMutex
}

const recentTradesLimit = 50

func NewLedgerService(db *sql.DB, holdingRepository repositories.HoldingRepository, tradeRepository repositories.TradeRepository) *LedgerService {
	return &LedgerService{
		db:                db,
		holdingRepository: holdingRepository,
		tradeRepository:   tradeRepository,
		locks:             utils.NewKeyedMutex(),
	}
}

// ExecuteTrade applies one BUY or SELL: validate, read the current holding,
// compute the new position and realized PnL, then write the holding mutation
// and the trade append atomically. On any rejection nothing is written.
func (s *LedgerService) ExecuteTrade(ctx context.Context, userID int64, symbol string, tradeType models.TradeType, shares int64, price float64) (*models.Trade, error) {
	if shares <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !tradeType.Valid() {
		return nil, ErrInvalidTradeType
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	unlock := s.locks.Lock(fmt.Sprintf("%d:%s", userID, symbol))
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin trade transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	holding, err := s.holdingRepository.Get(ctx, tx, userID, symbol)
	if err != nil {
		return nil, fmt.Errorf("read holding: %w", err)
	}

	now := time.Now().UTC()
	trade := &models.Trade{
		UserID:    userID,
		Symbol:    symbol,
		Type:      tradeType,
		Shares:    shares,
		Price:     price,
		Timestamp: now,
	}

	switch tradeType {
	case models.TradeTypeBuy:
		var curShares int64
		var curAvg float64
		if holding != nil {
			curShares = holding.Shares
			curAvg = holding.AvgCost
		}
		updated := &models.Holding{
			UserID:    userID,
			Symbol:    symbol,
			Shares:    curShares + shares,
			AvgCost:   weightedAverageCost(curShares, curAvg, shares, price),
			UpdatedAt: now,
		}
		if err := s.holdingRepository.Upsert(ctx, tx, updated); err != nil {
			return nil, fmt.Errorf("upsert holding: %w", err)
		}
		// No gain or loss is recognized on acquisition.
		trade.PnL = 0

	case models.TradeTypeSell:
		if holding == nil || holding.Shares < shares {
			return nil, ErrInsufficientShares
		}
		remaining := holding.Shares - shares
		trade.PnL = realizedPnL(price, holding.AvgCost, shares)
		if remaining == 0 {
			if err := s.holdingRepository.Delete(ctx, tx, userID, symbol); err != nil {
				return nil, fmt.Errorf("delete holding: %w", err)
			}
		} else {
			if err := s.holdingRepository.Reduce(ctx, tx, userID, symbol, remaining, now); err != nil {
				return nil, fmt.Errorf("reduce holding: %w", err)
			}
		}
	}

	if err := s.tradeRepository.Create(ctx, tx, trade); err != nil {
		return nil, fmt.Errorf("append trade: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit trade: %w", err)
	}
	committed = true
	return trade, nil
}

// GetPortfolio builds the read-only projection: current holdings, the most
// recent trades and cumulative realized PnL. No mutation, no locking.
func (s *LedgerService) GetPortfolio(ctx context.Context, userID int64) (*schemas.PortfolioResponse, error) {
	holdings, err := s.holdingRepository.GetAllByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	trades, err := s.tradeRepository.ListRecent(ctx, userID, recentTradesLimit)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	realized, err := s.tradeRepository.SumRealizedPnL(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sum realized pnl: %w", err)
	}

	resp := &schemas.PortfolioResponse{
		Holdings:    make([]schemas.HoldingResponse, 0, len(holdings)),
		Trades:      make([]schemas.TradeResponse, 0, len(trades)),
		RealizedPnL: realized,
	}
	for _, h := range holdings {
		resp.Holdings = append(resp.Holdings, schemas.HoldingResponse{
			Symbol:  h.Symbol,
			Shares:  h.Shares,
			AvgCost: h.AvgCost,
		})
	}
	for _, t := range trades {
		resp.Trades = append(resp.Trades, NewTradeResponse(&t))
	}
	return resp, nil
}

// NewTradeResponse maps a trade row to its DTO.
func NewTradeResponse(t *models.Trade) schemas.TradeResponse {
	return schemas.TradeResponse{
		ID:        t.ID,
		Symbol:    t.Symbol,
		Type:      string(t.Type),
		Shares:    t.Shares,
		Price:     t.Price,
		PnL:       t.PnL,
		Timestamp: t.Timestamp.UTC().Format(time.RFC3339),
	}
}
