package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"stocksim/src/services"
	"stocksim/src/utils"
)

func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	// Fitting plus explanation generation can take a while on cold cache.
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Minute)
	defer cancel()

	symbol := chi.URLParam(r, "symbol")

	days := services.DefaultForecastDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			h.HandleErrors(w, utils.UnprocessableEntity("days must be a positive integer"))
			return
		}
		days = parsed
	}

	forecast, err := h.ForecastController.GetForecast(ctx, symbol, days)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, forecast, http.StatusOK)
}
