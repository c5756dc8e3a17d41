package handler

import (
	"secure-wallet/internal/adapter/http/middleware"
	"secure-wallet/internal/core/domain"
	"secure-wallet/internal/core/ports"
	"secure-wallet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Onboarding *service.Onboarding
	NewWallet  func(*domain.Session) *service.Wallet
	QRSvc      *service.QRService
	TokenSvc   ports.TokenService
	Degraded   func() bool // nil = persistence never degrades
	Checkers   []ports.HealthChecker
	Logger     zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check
	r.GET("/health", HealthCheck(deps.Checkers...))

	state := NewAppState(deps.Onboarding)
	onboardingHandler := NewOnboardingHandler(state, deps.TokenSvc, deps.NewWallet, deps.Logger)
	walletHandler := NewWalletHandler(state, deps.QRSvc, deps.Degraded)

	v1 := r.Group("/api/v1")

	// --- Onboarding flow (no auth; the flow itself is the gate) ---
	onboarding := v1.Group("/onboarding")
	{
		onboarding.GET("/state", onboardingHandler.State)
		onboarding.POST("/otp/request", onboardingHandler.RequestOTP)
		onboarding.POST("/otp/verify", onboardingHandler.VerifyOTP)
		onboarding.POST("/password", onboardingHandler.SetPassword)
		onboarding.POST("/phrase/regenerate", onboardingHandler.RegeneratePhrase)
		onboarding.GET("/phrase/backup", onboardingHandler.PhraseBackup)
		onboarding.POST("/phrase/confirm", onboardingHandler.ConfirmPhrase)
		onboarding.POST("/reset", onboardingHandler.Reset)
	}

	// --- Wallet (session-token authenticated) ---
	sessionAuth := middleware.SessionAuth(deps.TokenSvc, state.ActiveEmail, deps.Logger)
	wallet := v1.Group("/wallet", sessionAuth)
	{
		wallet.GET("/overview", walletHandler.Overview)
		wallet.POST("/send/code", walletHandler.RequestSendCode)
		wallet.POST("/send", walletHandler.Send)
		wallet.POST("/transfer", walletHandler.Transfer)
		wallet.GET("/transactions", walletHandler.History)
		wallet.GET("/receive/:currency", walletHandler.Receive)
		wallet.POST("/logout", onboardingHandler.Reset)
	}

	return r
}
