package handler

import (
	"net/http"

	"secure-wallet/internal/adapter/http/dto"
	"secure-wallet/internal/core/domain"
	"secure-wallet/internal/core/ports"
	"secure-wallet/internal/service"
	"secure-wallet/pkg/apperror"
	"secure-wallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// OnboardingHandler handles the identity-establishment endpoints.
type OnboardingHandler struct {
	state     *AppState
	tokens    ports.TokenService
	newWallet func(*domain.Session) *service.Wallet
	log       zerolog.Logger
}

// NewOnboardingHandler creates a new OnboardingHandler. newWallet is invoked
// once per activation to build the transaction gate over the fresh session.
func NewOnboardingHandler(
	state *AppState,
	tokens ports.TokenService,
	newWallet func(*domain.Session) *service.Wallet,
	log zerolog.Logger,
) *OnboardingHandler {
	return &OnboardingHandler{state: state, tokens: tokens, newWallet: newWallet, log: log}
}

// RequestOTP handles POST /api/v1/onboarding/otp/request. Serves both the
// initial issuance and cooldown-gated resends.
func (h *OnboardingHandler) RequestOTP(c *gin.Context) {
	var req dto.RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidEmail())
		return
	}
	dto.SanitizeStruct(&req)

	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	if err := h.state.onboarding.RequestOTP(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.StateResponse{
		State:           string(h.state.onboarding.State()),
		CooldownSeconds: int(h.state.onboarding.CooldownRemaining().Seconds()),
	})
}

// VerifyOTP handles POST /api/v1/onboarding/otp/verify. A returning user with
// a complete identity goes straight to the active session.
func (h *OnboardingHandler) VerifyOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrIncompleteCode())
		return
	}
	dto.SanitizeStruct(&req)

	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	state, err := h.state.onboarding.SubmitOTP(c.Request.Context(), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	if state == domain.StateActive {
		h.activate(c)
		return
	}
	response.OK(c, dto.StateResponse{State: string(state)})
}

// SetPassword handles POST /api/v1/onboarding/password. The generated
// recovery phrase is returned for display and confirmation.
func (h *OnboardingHandler) SetPassword(c *gin.Context) {
	var req dto.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrWeakPassword("Password and confirmation are required"))
		return
	}
	// Passwords are deliberately not sanitized; every byte counts.

	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	if err := h.state.onboarding.SetPassword(c.Request.Context(), req.Password, req.Confirm); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.PhraseResponse{Phrase: h.state.onboarding.Phrase()})
}

// RegeneratePhrase handles POST /api/v1/onboarding/phrase/regenerate.
func (h *OnboardingHandler) RegeneratePhrase(c *gin.Context) {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	phrase, err := h.state.onboarding.RegeneratePhrase()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.PhraseResponse{Phrase: phrase})
}

// PhraseBackup handles GET /api/v1/onboarding/phrase/backup, serving the
// downloadable backup document as plain text.
func (h *OnboardingHandler) PhraseBackup(c *gin.Context) {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	backup := h.state.onboarding.PhraseBackup()
	if backup == "" {
		response.Error(c, apperror.ErrWrongState("seed phrase confirmation"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="securewallet-seed-backup.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(backup))
}

// ConfirmPhrase handles POST /api/v1/onboarding/phrase/confirm. On success
// onboarding completes and the session token is issued.
func (h *OnboardingHandler) ConfirmPhrase(c *gin.Context) {
	var req dto.ConfirmPhraseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrPhraseMismatch())
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	if err := h.state.onboarding.ConfirmSeedPhrase(c.Request.Context(), req.Phrase, req.Acknowledged); err != nil {
		response.Error(c, err)
		return
	}
	h.activate(c)
}

// State handles GET /api/v1/onboarding/state for UI resynchronization.
func (h *OnboardingHandler) State(c *gin.Context) {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	response.OK(c, dto.StateResponse{
		State:           string(h.state.onboarding.State()),
		CooldownSeconds: int(h.state.onboarding.CooldownRemaining().Seconds()),
	})
}

// Reset handles POST /api/v1/onboarding/reset. Discards the session and any
// in-flight challenges; also backs the logout endpoint.
func (h *OnboardingHandler) Reset(c *gin.Context) {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	h.state.onboarding.Reset()
	h.state.wallet = nil

	response.OK(c, dto.StateResponse{State: string(domain.StateEmailEntry)})
}

// activate builds the wallet gate and mints the session token. Caller holds
// the state lock.
func (h *OnboardingHandler) activate(c *gin.Context) {
	session := h.state.onboarding.Session()
	h.state.wallet = h.newWallet(session)

	token, expiry, err := h.tokens.Generate(session.Identity.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("session token generation failed")
		response.Error(c, apperror.InternalError(err))
		return
	}

	response.OK(c, dto.SessionResponse{
		State:       string(domain.StateActive),
		Email:       session.Identity.Email,
		Address:     session.Identity.WalletAddress,
		Token:       token,
		TokenExpiry: expiry.Unix(),
	})
}
