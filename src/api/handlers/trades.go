package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"stocksim/src/schemas"
)

func (h *Handler) ExecuteTrade(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req schemas.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond(w, r, map[string]string{"error": "invalid request body"}, http.StatusBadRequest)
		return
	}

	if !h.requireUser(w, r, req.UserID) {
		return
	}

	resp, err := h.PortfolioController.ExecuteTrade(ctx, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, resp, http.StatusOK)
}
