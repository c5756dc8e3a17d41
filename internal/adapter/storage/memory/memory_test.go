package memory

import (
	"context"
	"testing"
	"time"

	"secure-wallet/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityStore_RoundTrip(t *testing.T) {
	store := NewIdentityStore()
	ctx := context.Background()

	missing, err := store.Load(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	identity := &domain.Identity{
		Email:          "alice@example.com",
		PasswordDigest: "digest",
		RecoveryPhrase: []string{"firewall", "malware", "phishing"},
		WalletAddress:  "bc1qaddr",
	}
	require.NoError(t, store.Save(ctx, identity))

	loaded, err := store.Load(ctx, identity.Email)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, identity.Email, loaded.Email)
	assert.Equal(t, identity.PasswordDigest, loaded.PasswordDigest)
	assert.Equal(t, identity.RecoveryPhrase, loaded.RecoveryPhrase)
	assert.Equal(t, identity.WalletAddress, loaded.WalletAddress)
}

func TestIdentityStore_ReturnsCopies(t *testing.T) {
	store := NewIdentityStore()
	ctx := context.Background()

	identity := &domain.Identity{Email: "alice@example.com", RecoveryPhrase: []string{"firewall"}}
	require.NoError(t, store.Save(ctx, identity))

	// Mutating the caller's slice must not leak into the store.
	identity.RecoveryPhrase[0] = "changed"

	loaded, err := store.Load(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "firewall", loaded.RecoveryPhrase[0])

	// Mutating a loaded copy must not leak either.
	loaded.RecoveryPhrase[0] = "changed"
	again, err := store.Load(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "firewall", again.RecoveryPhrase[0])
}

func TestTransactionStore_NewestFirst(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"tx_1", "tx_2", "tx_3"} {
		require.NoError(t, store.Save(ctx, "alice@example.com", &domain.Transaction{
			ID:        id,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	list, err := store.List(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "tx_3", list[0].ID)
	assert.Equal(t, "tx_1", list[2].ID)

	other, err := store.List(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestAttemptStore_RoundTrip(t *testing.T) {
	store := NewAttemptStore()
	ctx := context.Background()

	rec, err := store.Get(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, rec.FailCount)

	until := time.Now().Add(time.Hour)
	require.NoError(t, store.Put(ctx, "alice@example.com", &domain.AttemptRecord{
		FailCount:    2,
		LockoutUntil: &until,
	}))

	loaded, err := store.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.FailCount)
	require.NotNil(t, loaded.LockoutUntil)

	// Copies, not aliases.
	*loaded.LockoutUntil = time.Time{}
	again, err := store.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, until.Equal(*again.LockoutUntil))
}
