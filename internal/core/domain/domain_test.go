package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeIdentity() Identity {
	return Identity{
		Email:          "alice@example.com",
		PasswordDigest: "digest",
		RecoveryPhrase: []string{"firewall", "malware"},
		WalletAddress:  "bc1qaddr",
	}
}

func TestIdentity_IsComplete(t *testing.T) {
	complete := completeIdentity()
	assert.True(t, complete.IsComplete())

	partial := completeIdentity()
	partial.WalletAddress = ""
	assert.False(t, partial.IsComplete())

	partial = completeIdentity()
	partial.RecoveryPhrase = nil
	assert.False(t, partial.IsComplete())

	var empty Identity
	assert.False(t, empty.IsComplete())
}

func TestIdentity_DisplayHelpers(t *testing.T) {
	id := completeIdentity()
	assert.Equal(t, "firewall malware", id.PhraseString())

	id.WalletAddress = "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh"
	assert.Equal(t, "bc1qxy2k...fjhx0wlh", id.ShortAddress())

	id.WalletAddress = "bc1qshort"
	assert.Equal(t, "bc1qshort", id.ShortAddress())
}

func TestParseCurrency(t *testing.T) {
	for _, c := range Currencies() {
		parsed, err := ParseCurrency(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, err := ParseCurrency("DOGE")
	assert.Error(t, err)
	_, err = ParseCurrency("btc") // case-sensitive on purpose
	assert.Error(t, err)
}

func TestNewSession_SeedsReferenceValues(t *testing.T) {
	prices := PriceTable{CurrencyBTC: 27000, CurrencyUSDT: 1}
	s := NewSession(completeIdentity(), map[Currency]float64{
		CurrencyBTC:  0.5,
		CurrencyUSDT: 100,
	}, prices)

	assert.InDelta(t, 13500, s.Balance(CurrencyBTC).ReferenceValue, 1e-9)
	assert.InDelta(t, 100, s.Balance(CurrencyUSDT).ReferenceValue, 1e-9)
	assert.InDelta(t, 13600, s.TotalReferenceValue(), 1e-9)
}

func TestSession_Debit(t *testing.T) {
	prices := PriceTable{CurrencyBTC: 27000}
	s := NewSession(completeIdentity(), map[Currency]float64{CurrencyBTC: 0.001}, prices)

	require.NoError(t, s.Debit(CurrencyBTC, 0.0004, prices))
	assert.InDelta(t, 0.0006, s.Balance(CurrencyBTC).Amount, 1e-12)
	assert.InDelta(t, 0.0006*27000, s.Balance(CurrencyBTC).ReferenceValue, 1e-9)
}

func TestSession_DebitOverdraftLeavesBalanceUntouched(t *testing.T) {
	prices := PriceTable{CurrencyBTC: 27000}
	s := NewSession(completeIdentity(), map[Currency]float64{CurrencyBTC: 0.001}, prices)

	err := s.Debit(CurrencyBTC, 0.002, prices)
	require.Error(t, err)
	assert.InDelta(t, 0.001, s.Balance(CurrencyBTC).Amount, 1e-12)

	// Unknown currency is an overdraft by definition.
	err = s.Debit(CurrencyETH, 0.1, prices)
	assert.Error(t, err)
}

func TestSession_PrependKeepsNewestFirst(t *testing.T) {
	s := NewSession(completeIdentity(), nil, nil)
	s.Prepend(Transaction{ID: "tx_1"})
	s.Prepend(Transaction{ID: "tx_2"})
	s.Prepend(Transaction{ID: "tx_3"})

	require.Len(t, s.Ledger, 3)
	assert.Equal(t, "tx_3", s.Ledger[0].ID)
	assert.Equal(t, "tx_1", s.Ledger[2].ID)
}

func TestChallenge_ExpiryAndMatch(t *testing.T) {
	issued := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewChallenge("ABCD", issued, 10*time.Minute)

	assert.False(t, c.Expired(issued))
	assert.False(t, c.Expired(issued.Add(10*time.Minute))) // boundary inclusive
	assert.True(t, c.Expired(issued.Add(10*time.Minute+time.Second)))

	assert.True(t, c.Matches("ABCD"))
	assert.True(t, c.Matches("abcd"))
	assert.True(t, c.Matches("  AbCd "))
	assert.False(t, c.Matches("ABCE"))

	assert.Equal(t, 10*time.Minute, c.Remaining(issued))
	assert.Zero(t, c.Remaining(issued.Add(time.Hour)))
}

func TestAttemptRecord_States(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	clear := AttemptRecord{}
	assert.Equal(t, AttemptStateClear, clear.State(now))
	assert.False(t, clear.Locked(now))

	warned := AttemptRecord{FailCount: 2}
	assert.Equal(t, AttemptStateWarned, warned.State(now))

	until := now.Add(2 * time.Hour)
	locked := AttemptRecord{FailCount: 3, LockoutUntil: &until}
	assert.Equal(t, AttemptStateLocked, locked.State(now))

	// The lockout expires by comparison, not by clearing the record.
	after := until.Add(time.Second)
	assert.False(t, locked.Locked(after))
	assert.Equal(t, AttemptStateWarned, locked.State(after))
}
