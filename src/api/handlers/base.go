package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/jwtauth"

	"stocksim/src/api/controllers"
	"stocksim/src/services"
	"stocksim/src/utils"
)

type Handler struct {
	PortfolioController controllers.PortfolioControllerI
	UsersController     controllers.UsersControllerI
	ForecastController  controllers.ForecastControllerI
}

func NewHandler(portfolio controllers.PortfolioControllerI, users controllers.UsersControllerI, forecast controllers.ForecastControllerI) *Handler {
	return &Handler{
		PortfolioController: portfolio,
		UsersController:     users,
		ForecastController:  forecast,
	}
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

// HandleErrors maps business-rule rejections to 400s, tagged errors to their
// status and everything else (the storage fault class) to a 500.
func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	var httpErr *utils.HTTPError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		h.respond(w, nil, map[string]string{"error": "Request timed out"}, http.StatusGatewayTimeout)
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInsufficientShares),
		errors.Is(err, services.ErrInvalidTradeType):
		h.respond(w, nil, map[string]string{"error": err.Error()}, http.StatusBadRequest)
	case errors.As(err, &httpErr):
		h.respond(w, nil, map[string]string{"error": httpErr.Message}, httpErr.Code)
	case err != nil:
		h.respond(w, nil, map[string]string{"error": err.Error()}, http.StatusInternalServerError)
	default:
		h.respond(w, nil, map[string]string{"error": "Unhandled error"}, http.StatusInternalServerError)
	}
}

// userIDFromContext reads the user_id claim set at login.
func userIDFromContext(ctx context.Context) (int64, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return 0, err
	}
	switch v := claims["user_id"].(type) {
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case json.Number:
		return v.Int64()
	default:
		return 0, fmt.Errorf("user_id claim missing")
	}
}

// requireUser rejects requests whose token does not belong to userID.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request, userID int64) bool {
	claimed, err := userIDFromContext(r.Context())
	if err != nil {
		h.HandleErrors(w, utils.Unauthorized("invalid token"))
		return false
	}
	if claimed != userID {
		h.HandleErrors(w, utils.Forbidden("token does not match requested user"))
		return false
	}
	return true
}
