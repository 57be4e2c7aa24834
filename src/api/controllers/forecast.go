package controllers

import (
	"context"

	"stocksim/src/schemas"
	"stocksim/src/services"
)

type ForecastControllerI interface {
	GetForecast(ctx context.Context, symbol string, days int) (*schemas.ForecastResponse, error)
}

type ForecastController struct {
	ForecastService services.ForecastServiceI
}

func NewForecastController(forecastService services.ForecastServiceI) *ForecastController {
	return &ForecastController{ForecastService: forecastService}
}

func (c *ForecastController) GetForecast(ctx context.Context, symbol string, days int) (*schemas.ForecastResponse, error) {
	return c.ForecastService.GetForecast(ctx, symbol, days)
}
