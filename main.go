package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/joho/godotenv"

	"stocksim/src/api"
	"stocksim/src/api/controllers"
	"stocksim/src/api/handlers"
	"stocksim/src/clients/marketdata"
	"stocksim/src/clients/ollama"
	"stocksim/src/config"
	"stocksim/src/database"
	"stocksim/src/repositories"
	"stocksim/src/scheduler"
	"stocksim/src/services"
	"stocksim/src/utils"
	aws_handler "stocksim/src/utils/aws"
	redis_utils "stocksim/src/utils/redis"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./settings")
	if err != nil {
		log.Println(err, "Error while loading config")
		return
	}
	errC, err := run(cfg)
	if err != nil {
		log.Println(err, "Couldn't run")
		return
	}

	if err := <-errC; err != nil {
		log.Println(err, "Error while running")
	}
}

func run(cfg *config.Config) (<-chan error, error) {
	errC := make(chan error, 1)

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.LogToFile, cfg.Logging.FilePath)

	tokenSecret := cfg.Auth.TokenSecret
	if cfg.Auth.SecretName != "" {
		secretManager, err := aws_handler.NewSecretManager(cfg.Auth.SecretRegion)
		if err != nil {
			return nil, err
		}
		tokenSecret, err = secretManager.GetSecretValue(cfg.Auth.SecretName)
		if err != nil {
			return nil, err
		}
	}
	tokenAuth := jwtauth.New("HS256", []byte(tokenSecret), nil)

	db, err := database.SetupDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, cfg.Databases.SQL.Driver); err != nil {
		return nil, err
	}
	gormDB, err := database.SetupGorm(db, cfg.Databases.SQL.Driver)
	if err != nil {
		return nil, err
	}

	holdingRepository := repositories.NewHoldingRepository(db)
	tradeRepository := repositories.NewTradeRepository(db)
	userRepository := repositories.NewUserRepository(gormDB)

	var forecastCache services.ForecastCache
	if cfg.Databases.Redis.Enabled {
		redisHandler, err := redis_utils.NewRedisHandler(cfg)
		if err != nil {
			return nil, err
		}
		forecastCache = services.NewRedisForecastCache(redisHandler)
	} else {
		forecastCache = services.NewMemoryForecastCache()
	}

	ledgerService := services.NewLedgerService(db, holdingRepository, tradeRepository)
	authService := services.NewAuthService(userRepository, tokenAuth, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	forecastService := services.NewForecastService(marketdata.NewClient(cfg), ollama.NewClient(cfg), forecastCache)

	handler := handlers.NewHandler(
		controllers.NewPortfolioController(ledgerService),
		controllers.NewUsersController(authService),
		controllers.NewForecastController(forecastService),
	)
	server := api.NewServer(handler, tokenAuth, logger)
	httpServer := api.NewHTTPServer(server, cfg)

	if cfg.Scheduler.Enabled {
		if _, err := scheduler.NewForecastRefreshTask(cfg.Scheduler.CronSpec, holdingRepository, forecastService, logger); err != nil {
			return nil, err
		}
	}

	go func() {
		logger.Info("Starting server on ", httpServer.Addr)

		// "ListenAndServe always returns a non-nil error. After Shutdown or
		// Close, the returned error is ErrServerClosed."
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()
	return errC, nil
}
