package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/todaypicks/storefront/config"
	"github.com/todaypicks/storefront/internal/cache"
	"github.com/todaypicks/storefront/internal/catalog"
	"github.com/todaypicks/storefront/internal/geo"
	"github.com/todaypicks/storefront/internal/handlers"
	"github.com/todaypicks/storefront/internal/ledger"
	"github.com/todaypicks/storefront/internal/middleware"
	"github.com/todaypicks/storefront/internal/payment"
	"github.com/todaypicks/storefront/internal/sheets"
	"github.com/todaypicks/storefront/internal/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting storefront service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: telemetry.DefaultServiceName,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	if cfg.Sheets.SpreadsheetID == "" {
		logger.Fatal().Msg("GOOGLESHEETS_ID not set")
	}

	sheetsClient := sheets.NewClient(sheets.ClientOptions{
		BaseURL:       cfg.Sheets.BaseURL,
		SpreadsheetID: cfg.Sheets.SpreadsheetID,
		Timeout:       cfg.Sheets.FetchTimeout,
		Concurrency:   cfg.Sheets.FetchConcurrency,
	})

	store := cache.New()
	go store.StartSweeper(ctx, cfg.Sheets.CacheTTL)

	catalogService := catalog.NewService(sheetsClient, store, cfg.Sheets.SpreadsheetID, cfg.Sheets.CacheTTL)

	gatewayClient := payment.NewClient(payment.ClientOptions{
		BaseURL:   cfg.Payment.BaseURL,
		SecretKey: config.SecretKey,
	})

	ledgerClient := ledger.NewClient(ledger.ClientOptions{
		SpreadsheetID: cfg.Sheets.LedgerID,
		Range:         cfg.Sheets.LedgerRange,
		Token:         cfg.Sheets.LedgerToken,
	})
	ledgerReader := ledger.NewReader(sheetsClient, cfg.Sheets.LedgerID, cfg.Sheets.LedgerRange)

	paymentService := payment.NewService(payment.ServiceOptions{
		Gateway:      gatewayClient,
		Ledger:       ledgerClient,
		PublicKey:    func() string { return config.Get().Payment.PublicKey },
		BaseCurrency: cfg.Payment.BaseCurrency,
		RedirectBase: cfg.Payment.RedirectBase,
	})

	geoClient := geo.NewClient(geo.ClientOptions{
		BaseURL: cfg.Geo.BaseURL,
		Timeout: cfg.Geo.Timeout,
	})

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(telemetry.MetricsMiddleware())
	setupMiddleware(router, logger)

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", telemetry.MetricsHandler())

	catalogAPI := &handlers.CatalogAPI{Catalog: catalogService}
	paymentsAPI := &handlers.PaymentsAPI{Payments: paymentService, Ledger: ledgerReader}
	locationAPI := &handlers.LocationAPI{Geo: geoClient}

	api := router.Group("/api")
	api.Use(middleware.RateLimitMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
	}))
	{
		api.GET("/products", catalogAPI.GetProducts)
		api.GET("/products/:category/:productId", catalogAPI.GetProduct)
		api.GET("/categories", catalogAPI.GetCategories)
		api.GET("/details/:productId", catalogAPI.GetDetails)

		api.GET("/user-location", locationAPI.GetUserLocation)
		api.POST("/convert-currency", paymentsAPI.ConvertCurrency)

		payments := api.Group("/payments")
		{
			payments.POST("/initiate", paymentsAPI.InitiatePayment)
			payments.POST("/verify", paymentsAPI.VerifyPayment)
			payments.GET("/status", paymentsAPI.PaymentStatus)
		}

		api.GET("/purchases", paymentsAPI.GetPurchase)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := telemetryShutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to shut down telemetry")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "storefront").Logger()
	zlog.Logger = logger
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Msg("HTTP request")
	})
}
