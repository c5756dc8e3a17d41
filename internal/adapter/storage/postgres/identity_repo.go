package postgres

import (
	"context"
	"errors"
	"fmt"

	"secure-wallet/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// IdentityRepo implements ports.IdentityRepository.
type IdentityRepo struct {
	pool Pool
}

// NewIdentityRepo creates a new IdentityRepo.
func NewIdentityRepo(pool Pool) *IdentityRepo {
	return &IdentityRepo{pool: pool}
}

// Load fetches an identity by email. Returns (nil, nil) when no record
// exists, so a fresh signup and a returning user read the same way.
func (r *IdentityRepo) Load(ctx context.Context, email string) (*domain.Identity, error) {
	query := `SELECT email, password_digest, recovery_phrase, wallet_address
		FROM identities WHERE email = $1`

	identity := &domain.Identity{}
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&identity.Email, &identity.PasswordDigest,
		&identity.RecoveryPhrase, &identity.WalletAddress,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load identity: %w", err)
	}
	return identity, nil
}

// Save upserts the identity record. Onboarding writes partial records as the
// flow advances, so an existing row is always overwritten in full.
func (r *IdentityRepo) Save(ctx context.Context, identity *domain.Identity) error {
	query := `INSERT INTO identities (email, password_digest, recovery_phrase, wallet_address, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (email) DO UPDATE
		SET password_digest = EXCLUDED.password_digest,
			recovery_phrase = EXCLUDED.recovery_phrase,
			wallet_address = EXCLUDED.wallet_address,
			updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query,
		identity.Email, identity.PasswordDigest,
		identity.RecoveryPhrase, identity.WalletAddress,
	)
	if err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}
