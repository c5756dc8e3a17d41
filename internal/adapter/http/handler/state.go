package handler

import (
	"sync"

	"secure-wallet/internal/service"
)

// AppState holds the single active session shared by the handlers. The flows
// are strictly sequential; all access is serialized on one mutex so a resend
// racing a verification can never interleave.
type AppState struct {
	mu         sync.Mutex
	onboarding *service.Onboarding
	wallet     *service.Wallet
}

// NewAppState creates the shared state around the onboarding machine.
func NewAppState(onboarding *service.Onboarding) *AppState {
	return &AppState{onboarding: onboarding}
}

// ActiveEmail returns the email of the active session, empty when none.
func (s *AppState) ActiveEmail() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wallet == nil {
		return ""
	}
	return s.wallet.Session().Identity.Email
}
