// Package tiered layers a remote repository over a local in-memory fallback.
// Every write lands in the local store first so the session keeps working
// when the remote backend is down; remote failures flip a degraded flag that
// the transport layer surfaces to the client.
package tiered

import (
	"context"
	"sync/atomic"

	"secure-wallet/internal/core/domain"
	"secure-wallet/internal/core/ports"

	"github.com/rs/zerolog"
)

// Health tracks whether the remote backend has failed since the last
// successful call. Both tiered repositories share one Health value so a
// degraded ledger also marks identity reads as degraded.
type Health struct {
	degraded atomic.Bool
}

// NewHealth creates a Health tracker.
func NewHealth() *Health {
	return &Health{}
}

// Degraded reports whether the last remote operation failed.
func (h *Health) Degraded() bool {
	return h.degraded.Load()
}

func (h *Health) markFailure() { h.degraded.Store(true) }
func (h *Health) markSuccess() { h.degraded.Store(false) }

// IdentityRepo is a two-tier ports.IdentityRepository.
type IdentityRepo struct {
	remote ports.IdentityRepository
	local  ports.IdentityRepository
	health *Health
	log    zerolog.Logger
}

// NewIdentityRepo creates a tiered identity repository.
func NewIdentityRepo(remote, local ports.IdentityRepository, health *Health, log zerolog.Logger) *IdentityRepo {
	return &IdentityRepo{remote: remote, local: local, health: health, log: log}
}

// Load reads from the remote store, falling back to the local copy when the
// remote call fails.
func (r *IdentityRepo) Load(ctx context.Context, email string) (*domain.Identity, error) {
	identity, err := r.remote.Load(ctx, email)
	if err != nil {
		r.health.markFailure()
		r.log.Warn().Err(err).Str("email", email).
			Msg("remote identity load failed, using local store")
		return r.local.Load(ctx, email)
	}
	r.health.markSuccess()

	if identity != nil {
		// Refresh the local copy so a later outage still sees this user.
		if err := r.local.Save(ctx, identity); err != nil {
			r.log.Warn().Err(err).Msg("local identity refresh failed")
		}
	}
	return identity, nil
}

// Save writes locally first, then to the remote store. A remote failure is
// logged and degrades the tier but never fails the save.
func (r *IdentityRepo) Save(ctx context.Context, identity *domain.Identity) error {
	if err := r.local.Save(ctx, identity); err != nil {
		return err
	}
	if err := r.remote.Save(ctx, identity); err != nil {
		r.health.markFailure()
		r.log.Warn().Err(err).Str("email", identity.Email).
			Msg("remote identity save failed, local copy kept")
		return nil
	}
	r.health.markSuccess()
	return nil
}

// TransactionRepo is a two-tier ports.TransactionRepository.
type TransactionRepo struct {
	remote ports.TransactionRepository
	local  ports.TransactionRepository
	health *Health
	log    zerolog.Logger
}

// NewTransactionRepo creates a tiered transaction repository.
func NewTransactionRepo(remote, local ports.TransactionRepository, health *Health, log zerolog.Logger) *TransactionRepo {
	return &TransactionRepo{remote: remote, local: local, health: health, log: log}
}

// Save writes locally first, then to the remote store. Remote failures are
// absorbed; the ledger entry already exists in the session and local store.
func (r *TransactionRepo) Save(ctx context.Context, email string, tx *domain.Transaction) error {
	if err := r.local.Save(ctx, email, tx); err != nil {
		return err
	}
	if err := r.remote.Save(ctx, email, tx); err != nil {
		r.health.markFailure()
		r.log.Warn().Err(err).Str("email", email).Str("tx_id", tx.ID).
			Msg("remote transaction save failed, local copy kept")
		return nil
	}
	r.health.markSuccess()
	return nil
}

// List reads the remote ledger, falling back to the local copy.
func (r *TransactionRepo) List(ctx context.Context, email string) ([]domain.Transaction, error) {
	records, err := r.remote.List(ctx, email)
	if err != nil {
		r.health.markFailure()
		r.log.Warn().Err(err).Str("email", email).
			Msg("remote transaction list failed, using local store")
		return r.local.List(ctx, email)
	}
	r.health.markSuccess()
	return records, nil
}
