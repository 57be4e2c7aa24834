package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksim/src/api"
	"stocksim/src/api/controllers"
	"stocksim/src/api/handlers"
	"stocksim/src/config"
	"stocksim/src/database"
	"stocksim/src/repositories"
	"stocksim/src/schemas"
	"stocksim/src/services"
	"stocksim/src/utils"
)

type fakeForecastService struct {
	resp *schemas.ForecastResponse
	err  error
}

func (f *fakeForecastService) GetForecast(_ context.Context, _ string, _ int) (*schemas.ForecastResponse, error) {
	return f.resp, f.err
}

func setupServer(t *testing.T) *api.Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.Databases.SQL.Driver = "sqlite3"
	cfg.Databases.SQL.Database = filepath.Join(t.TempDir(), "test.db")

	db, err := database.SetupDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db, "sqlite3"))

	gormDB, err := database.SetupGorm(db, "sqlite3")
	require.NoError(t, err)

	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)

	holdingRepo := repositories.NewHoldingRepository(db)
	tradeRepo := repositories.NewTradeRepository(db)
	userRepo := repositories.NewUserRepository(gormDB)

	ledgerService := services.NewLedgerService(db, holdingRepo, tradeRepo)
	authService := services.NewAuthService(userRepo, tokenAuth, time.Hour)
	forecastService := &fakeForecastService{resp: &schemas.ForecastResponse{
		Dates:       []string{"2024-06-10"},
		Prices:      []float64{101.5},
		Explanation: "trending up",
	}}

	handler := handlers.NewHandler(
		controllers.NewPortfolioController(ledgerService),
		controllers.NewUsersController(authService),
		controllers.NewForecastController(forecastService),
	)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return api.NewServer(handler, tokenAuth, logger)
}

func doRequest(t *testing.T, server *api.Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func registerUser(t *testing.T, server *api.Server, email string) schemas.AuthResponse {
	t.Helper()
	rec := doRequest(t, server, http.MethodPost, "/api/auth/register", "", schemas.RegisterRequest{
		Email:    email,
		Password: "hunter22",
		Name:     "Test User",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp schemas.AuthResponse
	decodeBody(t, rec, &resp)
	return resp
}

func TestHealthcheck(t *testing.T) {
	server := setupServer(t)
	rec := doRequest(t, server, http.MethodGet, "/alive", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
}

func TestAuthEndpoints(t *testing.T) {
	server := setupServer(t)

	t.Run("register and login", func(t *testing.T) {
		registered := registerUser(t, server, "alice@example.com")
		assert.NotEmpty(t, registered.Token)
		assert.NotZero(t, registered.User.ID)

		rec := doRequest(t, server, http.MethodPost, "/api/auth/login", "", schemas.LoginRequest{
			Email:    "alice@example.com",
			Password: "hunter22",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp schemas.AuthResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, registered.User.ID, resp.User.ID)
	})

	t.Run("duplicate register is a 400", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/auth/register", "", schemas.RegisterRequest{
			Email:    "alice@example.com",
			Password: "hunter22",
			Name:     "Alice Again",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong password is a 401", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/auth/login", "", schemas.LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong-pass",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTradeAndPortfolioEndpoints(t *testing.T) {
	server := setupServer(t)
	auth := registerUser(t, server, "bob@example.com")
	userID := auth.User.ID

	tradeBody := func(tradeType string, shares int64, price float64) schemas.TradeRequest {
		return schemas.TradeRequest{
			UserID: userID,
			Symbol: "AAPL",
			Type:   tradeType,
			Shares: shares,
			Price:  price,
		}
	}

	t.Run("trade without a token is a 401", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/trades", "", tradeBody("BUY", 10, 100))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("buy returns refreshed projections", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/trades", auth.Token, tradeBody("BUY", 10, 100))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp schemas.TradeExecutionResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "BUY", resp.Trade.Type)
		assert.Equal(t, float64(0), resp.Trade.PnL)
		require.Len(t, resp.Holdings, 1)
		assert.Equal(t, int64(10), resp.Holdings[0].Shares)
		require.Len(t, resp.Trades, 1)
	})

	t.Run("lowercase type is accepted", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/trades", auth.Token, tradeBody("sell", 2, 120))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp schemas.TradeExecutionResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "SELL", resp.Trade.Type)
		assert.InDelta(t, 40.0, resp.Trade.PnL, 1e-9)
	})

	t.Run("over-sell is a 400", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/trades", auth.Token, tradeBody("SELL", 1000, 120))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown type is a 400", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/trades", auth.Token, tradeBody("SHORT", 1, 120))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("trading for another user is a 403", func(t *testing.T) {
		other := registerUser(t, server, "mallory@example.com")
		rec := doRequest(t, server, http.MethodPost, "/api/trades", other.Token, tradeBody("BUY", 1, 100))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("portfolio reflects the trades", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodGet, "/api/portfolio/"+itoa(userID), auth.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp schemas.PortfolioResponse
		decodeBody(t, rec, &resp)
		require.Len(t, resp.Holdings, 1)
		assert.Equal(t, int64(8), resp.Holdings[0].Shares)
		assert.Len(t, resp.Trades, 2)
		assert.InDelta(t, 40.0, resp.RealizedPnL, 1e-9)
	})

	t.Run("portfolio of another user is a 403", func(t *testing.T) {
		other := registerUser(t, server, "eve@example.com")
		rec := doRequest(t, server, http.MethodGet, "/api/portfolio/"+itoa(userID), other.Token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("non-integer user_id is a 422", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodGet, "/api/portfolio/abc", auth.Token, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestForecastEndpoint(t *testing.T) {
	server := setupServer(t)

	t.Run("returns the forecast without auth", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodGet, "/api/forecast/AAPL?days=5", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp schemas.ForecastResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, []float64{101.5}, resp.Prices)
		assert.Equal(t, "trending up", resp.Explanation)
	})

	t.Run("bad days param is a 422", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodGet, "/api/forecast/AAPL?days=zero", "", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		rec = doRequest(t, server, http.MethodGet, "/api/forecast/AAPL?days=-3", "", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestErrorMapping(t *testing.T) {
	h := &handlers.Handler{}

	t.Run("tagged errors keep their status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.HandleErrors(rec, utils.NotFound("no such thing"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"no such thing"}`, rec.Body.String())
	})

	t.Run("deadline maps to 504", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.HandleErrors(rec, context.DeadlineExceeded)
		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	})

	t.Run("unknown errors map to 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.HandleErrors(rec, io.ErrUnexpectedEOF)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("business rejections map to 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.HandleErrors(rec, services.ErrInsufficientShares)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
