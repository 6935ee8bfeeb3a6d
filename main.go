// backend/main.go
package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/username/tradejournal/backend/src/config"
	"github.com/username/tradejournal/backend/src/database"
	"github.com/username/tradejournal/backend/src/handlers"
	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/parsers"
	"github.com/username/tradejournal/backend/src/processors"
	"github.com/username/tradejournal/backend/src/security"
	"github.com/username/tradejournal/backend/src/services"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	db, err := database.InitDB(config.Cfg.DatabasePath)
	if err != nil {
		logger.L.Error("Failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		logger.L.Error("Failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	catalogue, err := parsers.LoadCatalogue(config.Cfg.SchemaCataloguePath)
	if err != nil {
		logger.L.Error("Failed to load schema catalogue", slog.Any("error", err))
		os.Exit(1)
	}
	multipliers, err := processors.LoadMultiplierTable(config.Cfg.FuturesMultiplierPath)
	if err != nil {
		logger.L.Error("Failed to load futures multipliers", slog.Any("error", err))
		os.Exit(1)
	}

	store := services.NewSQLiteStore(db)
	reportCache := gocache.New(config.Cfg.ReportCacheTTL, 5*time.Minute)

	analyticsService := services.NewAnalyticsService(
		store, store, store,
		processors.NewRoundTripProcessor(),
		processors.NewEquityCurveProcessor(multipliers),
		processors.NewMonthlyPnlProcessor(multipliers),
		processors.NewSummaryCardsProcessor(multipliers),
		processors.NewCostProcessor(multipliers),
		reportCache,
		services.AnalyticsDefaults{
			Timezone:       config.Cfg.DefaultTimezone,
			InitialBalance: config.Cfg.DefaultInitialBalance,
		},
	)
	importService := services.NewImportService(
		store, store,
		parsers.NewDetector(catalogue),
		processors.NewFillProcessor(),
		analyticsService,
	)

	authService := security.NewAuthService(config.Cfg.JWTSecret, config.Cfg.JWTExpiration)

	userHandler := handlers.NewUserHandler(db, authService)
	importHandler := handlers.NewImportHandler(importService, config.Cfg.MaxUploadSizeBytes)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	tradeHandler := handlers.NewTradeHandler(analyticsService)
	csrfHandler := handlers.NewCSRFHandler(config.Cfg.CSRFAuthKey)

	limiter := rate.NewLimiter(rate.Limit(config.Cfg.RateLimitRPS), config.Cfg.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(handlers.CORSMiddleware(config.Cfg.FrontendBaseURL))
	r.Use(handlers.RateLimitMiddleware(limiter))

	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	})
	r.Get("/api/csrf-token", csrfHandler.GetCSRFToken)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.Post("/refresh", userHandler.Refresh)
		r.Post("/logout", userHandler.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(handlers.AuthMiddleware(authService))
		r.Use(csrfHandler.Middleware)

		r.Post("/api/import/detect", importHandler.Detect)
		r.Post("/api/import/commit", importHandler.Commit)

		r.Post("/api/analytics/equity-curve", analyticsHandler.EquityCurve)
		r.Post("/api/analytics/monthly-pnl", analyticsHandler.MonthlyPnl)
		r.Post("/api/analytics/cards", analyticsHandler.Cards)
		r.Post("/api/analytics/costs", analyticsHandler.Costs)
		r.Post("/api/analytics/trades", analyticsHandler.Trades)

		r.Get("/api/trades/completed", tradeHandler.CompletedTrades)
		r.Delete("/api/fills/all", tradeHandler.DeleteAllFills)

		r.Get("/api/user/settings", userHandler.GetSettings)
		r.Put("/api/user/settings", userHandler.UpdateSettings)
	})

	server := &http.Server{
		Addr:         ":" + config.Cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", slog.String("port", config.Cfg.Port), slog.String("env", config.Cfg.Env))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
