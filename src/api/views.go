package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"stocksim/src/api/handlers"
	"stocksim/src/config"
	"stocksim/src/utils"
)

type Server struct {
	Router  *chi.Mux
	Handler handlers.Handler
}

func NewServer(handler *handlers.Handler, tokenAuth *jwtauth.JWTAuth, logger *logrus.Logger) *Server {
	server := &Server{
		Router:  chi.NewRouter(),
		Handler: *handler,
	}
	server.InitRoutes(tokenAuth, logger)
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes(tokenAuth *jwtauth.JWTAuth, logger *logrus.Logger) {
	s.Router.Use(requestLogger(logger))

	s.Router.Get("/alive", handlers.Healthcheck)

	s.Router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.Handler.Register)
		r.Post("/auth/login", s.Handler.Login)

		r.Get("/forecast/{symbol}", s.Handler.GetForecast)

		// Ledger routes require a token whose user_id matches the request.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(tokenAuth))
			r.Use(jwtauth.Authenticator)

			r.Get("/portfolio/{user_id}", s.Handler.GetPortfolio)
			r.Post("/trades", s.Handler.ExecuteTrade)
		})
	})
}

// requestLogger tags each request with an id, injects the logger into the
// request context and logs the call on completion.
func requestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			start := time.Now()

			ctx := utils.WithLogger(r.Context(), logger)
			next.ServeHTTP(w, r.WithContext(ctx))

			logger.WithFields(logrus.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"duration":   time.Since(start).String(),
			}).Info("request completed")
		})
	}
}

func NewHTTPServer(server *Server, cfg *config.Config) *http.Server {
	port := cfg.Service.Port
	if port == "" {
		port = "8000"
	}
	return &http.Server{
		Addr:        ":" + port,
		ReadTimeout: 30 * time.Second,
		// Long enough for a cold forecast (model fit + explanation).
		WriteTimeout: 210 * time.Second,
		Handler:      cors.AllowAll().Handler(server),
	}
}
