// Package memory implements the local single-device fallback stores. They
// hold copies of everything written so reads after writes are symmetric,
// which the tiered persistence layer relies on when the remote backend is
// unavailable.
package memory

import (
	"context"
	"sync"

	"secure-wallet/internal/core/domain"
)

// IdentityStore is an in-memory ports.IdentityRepository keyed by email.
type IdentityStore struct {
	mu         sync.RWMutex
	identities map[string]domain.Identity
}

// NewIdentityStore creates an empty identity store.
func NewIdentityStore() *IdentityStore {
	return &IdentityStore{identities: make(map[string]domain.Identity)}
}

// Load returns a copy of the stored identity, or (nil, nil) if absent.
func (s *IdentityStore) Load(_ context.Context, email string) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.identities[email]
	if !ok {
		return nil, nil
	}
	identity.RecoveryPhrase = append([]string(nil), identity.RecoveryPhrase...)
	return &identity, nil
}

// Save stores a copy of the identity.
func (s *IdentityStore) Save(_ context.Context, identity *domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *identity
	stored.RecoveryPhrase = append([]string(nil), identity.RecoveryPhrase...)
	s.identities[identity.Email] = stored
	return nil
}

// TransactionStore is an in-memory ports.TransactionRepository. Records are
// kept newest-first, matching the ledger ordering invariant.
type TransactionStore struct {
	mu     sync.RWMutex
	byUser map[string][]domain.Transaction
}

// NewTransactionStore creates an empty transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{byUser: make(map[string][]domain.Transaction)}
}

// Save prepends the record to the user's ledger.
func (s *TransactionStore) Save(_ context.Context, email string, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byUser[email] = append([]domain.Transaction{*tx}, s.byUser[email]...)
	return nil
}

// List returns a copy of the user's ledger, newest-first.
func (s *TransactionStore) List(_ context.Context, email string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.Transaction(nil), s.byUser[email]...), nil
}

// AttemptStore is an in-memory ports.AttemptRepository.
type AttemptStore struct {
	mu      sync.RWMutex
	records map[string]domain.AttemptRecord
}

// NewAttemptStore creates an empty attempt store.
func NewAttemptStore() *AttemptStore {
	return &AttemptStore{records: make(map[string]domain.AttemptRecord)}
}

// Get returns a copy of the record; a zero record for a never-seen email.
func (s *AttemptStore) Get(_ context.Context, email string) (*domain.AttemptRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := s.records[email]
	if rec.LockoutUntil != nil {
		until := *rec.LockoutUntil
		rec.LockoutUntil = &until
	}
	return &rec, nil
}

// Put stores a copy of the record.
func (s *AttemptStore) Put(_ context.Context, email string, record *domain.AttemptRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *record
	if record.LockoutUntil != nil {
		until := *record.LockoutUntil
		stored.LockoutUntil = &until
	}
	s.records[email] = stored
	return nil
}
