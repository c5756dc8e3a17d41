package service

import (
	"context"
	"errors"
	"time"

	"secure-wallet/internal/adapter/storage/memory"
	"secure-wallet/internal/core/domain"

	"github.com/rs/zerolog"
)

// Shared test doubles for the flow services. Hand-written on purpose: the
// collaborator ports are small and the fakes stay readable.

var errMailDown = errors.New("mail provider unavailable")

type sentMail struct {
	to   string
	code string
}

type fakeMailer struct {
	sent []sentMail
	err  error // next SendCode fails with this when set
}

func (m *fakeMailer) SendCode(_ context.Context, to, code string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, code: code})
	return nil
}

func (m *fakeMailer) lastCode() string {
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].code
}

// fakeCodes returns scripted codes. RecoveryPhrase walks the phrases slice
// so regeneration is observable; the last entry repeats once exhausted.
type fakeCodes struct {
	numeric string
	alpha   string
	phrases [][]string
	draws   int
}

func (c *fakeCodes) NumericCode() string { return c.numeric }
func (c *fakeCodes) AlphaCode() string   { return c.alpha }

func (c *fakeCodes) RecoveryPhrase() []string {
	idx := c.draws
	if idx >= len(c.phrases) {
		idx = len(c.phrases) - 1
	}
	c.draws++
	return append([]string(nil), c.phrases[idx]...)
}

func testPhrase() []string {
	return []string{
		"firewall", "malware", "phishing", "hashing", "intrusion", "exploit",
		"patch", "sandbox", "trojan", "backdoor", "keylogger", "protocol",
	}
}

func altPhrase() []string {
	return []string{
		"cryptography", "packets", "penetration", "incident", "vpn", "audit",
		"rainbow", "kernel", "sniffing", "alert", "spy", "vulnerability",
	}
}

// testEnv bundles an onboarding machine with its collaborators and a
// manually advanced clock.
type testEnv struct {
	onboarding *Onboarding
	mailer     *fakeMailer
	codes      *fakeCodes
	identities *memory.IdentityStore
	ledger     *memory.TransactionStore
	attempts   *memory.AttemptStore
	now        time.Time
}

func newTestEnv() *testEnv {
	env := &testEnv{
		mailer:     &fakeMailer{},
		codes:      &fakeCodes{numeric: "123456", alpha: "ABCD", phrases: [][]string{testPhrase(), altPhrase()}},
		identities: memory.NewIdentityStore(),
		ledger:     memory.NewTransactionStore(),
		attempts:   memory.NewAttemptStore(),
		now:        time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	clock := func() time.Time { return env.now }
	throttle := NewThrottle(env.attempts, 3, 2*time.Hour, zerolog.Nop())
	throttle.now = clock

	env.onboarding = NewOnboarding(
		env.identities, env.ledger, throttle, env.mailer,
		NewSHA256Hasher(), env.codes,
		OnboardingConfig{
			OTPTTL:         10 * time.Minute,
			ResendCooldown: 60 * time.Second,
			SeedBalances: map[domain.Currency]float64{
				domain.CurrencyBTC:  0.15647832,
				domain.CurrencyETH:  3.24567891,
				domain.CurrencyUSDT: 1234.56,
			},
			Prices: domain.PriceTable{
				domain.CurrencyBTC:  27000,
				domain.CurrencyETH:  1750,
				domain.CurrencyUSDT: 1,
			},
		},
		zerolog.Nop(),
	)
	env.onboarding.now = clock
	return env
}

func (e *testEnv) advance(d time.Duration) {
	e.now = e.now.Add(d)
}
