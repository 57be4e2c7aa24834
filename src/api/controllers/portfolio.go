package controllers

import (
	"context"
	"strings"

	"stocksim/src/models"
	"stocksim/src/schemas"
	"stocksim/src/services"
)

type PortfolioControllerI interface {
	ExecuteTrade(ctx context.Context, req *schemas.TradeRequest) (*schemas.TradeExecutionResponse, error)
	GetPortfolio(ctx context.Context, userID int64) (*schemas.PortfolioResponse, error)
}

type PortfolioController struct {
	LedgerService services.LedgerServiceI
}

func NewPortfolioController(ledgerService services.LedgerServiceI) *PortfolioController {
	return &PortfolioController{LedgerService: ledgerService}
}

// ExecuteTrade runs the trade and returns it with the refreshed projections.
func (c *PortfolioController) ExecuteTrade(ctx context.Context, req *schemas.TradeRequest) (*schemas.TradeExecutionResponse, error) {
	tradeType := models.TradeType(strings.ToUpper(strings.TrimSpace(req.Type)))

	trade, err := c.LedgerService.ExecuteTrade(ctx, req.UserID, req.Symbol, tradeType, req.Shares, req.Price)
	if err != nil {
		return nil, err
	}

	portfolio, err := c.LedgerService.GetPortfolio(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	return &schemas.TradeExecutionResponse{
		Trade:       services.NewTradeResponse(trade),
		Trades:      portfolio.Trades,
		Holdings:    portfolio.Holdings,
		RealizedPnL: portfolio.RealizedPnL,
	}, nil
}

func (c *PortfolioController) GetPortfolio(ctx context.Context, userID int64) (*schemas.PortfolioResponse, error) {
	return c.LedgerService.GetPortfolio(ctx, userID)
}
