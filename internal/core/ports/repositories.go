package ports

import (
	"context"

	"secure-wallet/internal/core/domain"
)

// IdentityRepository defines persistence operations for identities, keyed by
// email. Load returns (nil, nil) when no identity exists for the email.
type IdentityRepository interface {
	Load(ctx context.Context, email string) (*domain.Identity, error)
	Save(ctx context.Context, identity *domain.Identity) error
}

// TransactionRepository defines persistence operations for the per-user
// ledger. List returns records newest-first.
type TransactionRepository interface {
	Save(ctx context.Context, email string, tx *domain.Transaction) error
	List(ctx context.Context, email string) ([]domain.Transaction, error)
}

// AttemptRepository stores failed-verification counters per email. Get
// returns a zero-valued record for a never-seen email; reading never counts
// as an attempt.
type AttemptRepository interface {
	Get(ctx context.Context, email string) (*domain.AttemptRecord, error)
	Put(ctx context.Context, email string, record *domain.AttemptRecord) error
}
