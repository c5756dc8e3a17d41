package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"secure-wallet/config"
	emailAdapter "secure-wallet/internal/adapter/email"
	httpHandler "secure-wallet/internal/adapter/http/handler"
	memStorage "secure-wallet/internal/adapter/storage/memory"
	pgStorage "secure-wallet/internal/adapter/storage/postgres"
	redisStorage "secure-wallet/internal/adapter/storage/redis"
	tieredStorage "secure-wallet/internal/adapter/storage/tiered"
	"secure-wallet/internal/core/domain"
	"secure-wallet/internal/core/ports"
	"secure-wallet/internal/service"
	"secure-wallet/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Secure Wallet")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Tiered persistence: remote primary with in-memory local fallback.
	health := tieredStorage.NewHealth()
	identityRepo := tieredStorage.NewIdentityRepo(
		pgStorage.NewIdentityRepo(pool), memStorage.NewIdentityStore(), health, log)
	txRepo := tieredStorage.NewTransactionRepo(
		pgStorage.NewTransactionRepo(pool), memStorage.NewTransactionStore(), health, log)
	attemptStore := redisStorage.NewAttemptStore(rdb)

	// Code delivery
	var mailer ports.Mailer
	switch cfg.Mail.Provider {
	case "http":
		mailer = emailAdapter.NewTemplateMailer(cfg.Mail, &http.Client{Timeout: cfg.Mail.Timeout}, log)
	default:
		mailer = emailAdapter.NewLogMailer(log)
		log.Warn().Msg("Mail provider set to log; codes are written to the logger")
	}

	// Initialize core services
	var hasher ports.Hasher = service.NewSHA256Hasher()
	if cfg.Security.HashFallback {
		hasher = service.NewChecksumHasher()
		log.Warn().Msg("Checksum hash fallback enabled; digests are weak")
	}
	codes := service.NewRandomCodeGenerator()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	throttle := service.NewThrottle(attemptStore, cfg.Security.MaxFailures, cfg.Security.LockoutWindow, log)

	// Initialize flow services
	onboarding := service.NewOnboarding(identityRepo, txRepo, throttle, mailer, hasher, codes,
		service.OnboardingConfig{
			OTPTTL:         cfg.Security.OTPTTL,
			ResendCooldown: cfg.Security.ResendCooldown,
			SeedBalances:   cfg.Assets.Seed(),
			Prices:         cfg.Assets.PriceTable(),
		}, log)

	walletCfg := service.WalletConfig{
		SendCodeTTL: cfg.Security.SendCodeTTL,
		Fees:        cfg.Assets.FeeTable(),
		Prices:      cfg.Assets.PriceTable(),
		Addresses:   currencyAddresses(cfg.Assets.Addresses),
	}
	newWallet := func(session *domain.Session) *service.Wallet {
		return service.NewWallet(session, txRepo, mailer, codes, walletCfg, log)
	}

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Onboarding: onboarding,
		NewWallet:  newWallet,
		QRSvc:      service.NewQRService(),
		TokenSvc:   tokenSvc,
		Degraded:   health.Degraded,
		Checkers:   []ports.HealthChecker{pgHealth, redisHealth},
		Logger:     log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func currencyAddresses(in map[string]string) map[domain.Currency]string {
	out := make(map[domain.Currency]string, len(in))
	for k, v := range in {
		out[domain.Currency(k)] = v
	}
	return out
}
