package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"secure-wallet/internal/core/domain"
	"secure-wallet/internal/core/ports"
	"secure-wallet/pkg/apperror"

	"github.com/rs/zerolog"
)

var (
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	upperPattern     = regexp.MustCompile(`[A-Z]`)
	lowerPattern     = regexp.MustCompile(`[a-z]`)
	digitPattern     = regexp.MustCompile(`\d`)
	symbolPattern    = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
	whitespaceRuns   = regexp.MustCompile(`\s+`)
	minPasswordChars = 8
)

// OnboardingConfig carries the flow tunables and session seeding tables.
type OnboardingConfig struct {
	OTPTTL         time.Duration
	ResendCooldown time.Duration
	SeedBalances   map[domain.Currency]float64
	Prices         domain.PriceTable
}

// Onboarding drives the identity-establishment flow:
// EmailEntry -> OTPPending -> PasswordSetup -> PhraseConfirm -> Active.
// Transitions are strictly forward; Reset is the only way back. The machine
// owns the pending OTP challenge, the resend cooldown and the identity draft.
type Onboarding struct {
	identities ports.IdentityRepository
	ledger     ports.TransactionRepository
	throttle   *Throttle
	mailer     ports.Mailer
	hasher     ports.Hasher
	codes      ports.CodeGenerator
	cfg        OnboardingConfig
	log        zerolog.Logger
	now        func() time.Time

	state         domain.OnboardingState
	draft         domain.Identity
	otp           *domain.Challenge
	cooldownUntil time.Time
	phrase        []string
	session       *domain.Session
}

// NewOnboarding creates the onboarding state machine in EmailEntry.
func NewOnboarding(
	identities ports.IdentityRepository,
	ledger ports.TransactionRepository,
	throttle *Throttle,
	mailer ports.Mailer,
	hasher ports.Hasher,
	codes ports.CodeGenerator,
	cfg OnboardingConfig,
	log zerolog.Logger,
) *Onboarding {
	return &Onboarding{
		identities: identities,
		ledger:     ledger,
		throttle:   throttle,
		mailer:     mailer,
		hasher:     hasher,
		codes:      codes,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
		state:      domain.StateEmailEntry,
	}
}

// State returns the current onboarding state.
func (o *Onboarding) State() domain.OnboardingState { return o.state }

// Session returns the populated session record, nil until Active.
func (o *Onboarding) Session() *domain.Session { return o.session }

// Phrase returns the recovery phrase awaiting confirmation.
func (o *Onboarding) Phrase() []string { return o.phrase }

// CooldownRemaining reports how long the resend cooldown has left; zero when
// clear. Exposed for UI countdown display only.
func (o *Onboarding) CooldownRemaining() time.Duration {
	if d := o.cooldownUntil.Sub(o.now()); d > 0 {
		return d
	}
	return 0
}

// RequestOTP issues a numeric one-time code to the email and moves to
// OTPPending. Also serves cooldown-gated re-issuance from OTPPending.
// Preconditions: syntactically valid email, throttle admission, cooldown
// clear. On delivery failure the generated code is invalidated, the cooldown
// does not start and the state is unchanged.
func (o *Onboarding) RequestOTP(ctx context.Context, email string) error {
	if o.state != domain.StateEmailEntry && o.state != domain.StateOTPPending {
		return apperror.ErrWrongState("email entry")
	}

	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return apperror.ErrInvalidEmail()
	}

	if remaining := o.CooldownRemaining(); remaining > 0 {
		return apperror.ErrCooldownActive(remaining)
	}

	if err := o.throttle.CheckAdmission(ctx, email); err != nil {
		return err
	}

	now := o.now()
	challenge := domain.NewChallenge(o.codes.NumericCode(), now, o.cfg.OTPTTL)

	if err := o.mailer.SendCode(ctx, email, challenge.Code); err != nil {
		// An undelivered code cannot be known by the user; invalidate it.
		o.otp = nil
		o.log.Error().Err(err).Str("email", email).Msg("otp delivery failed")
		return apperror.ErrDeliveryFailed(err)
	}

	o.otp = challenge
	o.draft = domain.Identity{Email: email}
	o.cooldownUntil = now.Add(o.cfg.ResendCooldown)
	o.state = domain.StateOTPPending

	o.log.Info().
		Str("email", email).
		Time("expires_at", challenge.ExpiresAt).
		Msg("otp issued")
	return nil
}

// SubmitOTP verifies the entered code. On a match for an email with an
// existing complete identity the machine goes straight to Active (returning
// user); otherwise to PasswordSetup. A wrong code feeds the attempt
// throttle and may trigger lockout.
func (o *Onboarding) SubmitOTP(ctx context.Context, code string) (domain.OnboardingState, error) {
	if o.state != domain.StateOTPPending {
		return o.state, apperror.ErrWrongState("OTP verification")
	}
	if len(strings.TrimSpace(code)) != 6 {
		return o.state, apperror.ErrIncompleteCode()
	}

	if err := o.throttle.CheckAdmission(ctx, o.draft.Email); err != nil {
		return o.state, err
	}

	if o.otp == nil {
		return o.state, apperror.ErrCodeNotRequested()
	}
	if o.otp.Expired(o.now()) {
		o.otp = nil
		return o.state, apperror.ErrCodeExpired()
	}

	if !o.otp.Matches(code) {
		state, err := o.throttle.RecordFailure(ctx, o.draft.Email)
		if err != nil {
			return o.state, err
		}
		if state == domain.AttemptStateLocked {
			return o.state, apperror.ErrTooManyAttempts()
		}
		return o.state, apperror.ErrCodeMismatch()
	}

	if err := o.throttle.RecordSuccess(ctx, o.draft.Email); err != nil {
		return o.state, err
	}
	o.otp = nil

	existing, err := o.identities.Load(ctx, o.draft.Email)
	if err != nil {
		// Load failures degrade to the new-user path, never abort the flow.
		o.log.Warn().Err(err).Str("email", o.draft.Email).Msg("identity load failed, treating as new user")
		existing = nil
	}

	if existing != nil && existing.IsComplete() {
		o.activate(ctx, *existing)
		return o.state, nil
	}

	o.state = domain.StatePasswordSetup
	return o.state, nil
}

// SetPassword validates the password rules, stores the digest in the
// identity draft, persists the partial identity and generates the first
// recovery phrase.
func (o *Onboarding) SetPassword(ctx context.Context, plaintext, confirm string) error {
	if o.state != domain.StatePasswordSetup {
		return apperror.ErrWrongState("password setup")
	}
	if err := checkPasswordRules(plaintext); err != nil {
		return err
	}
	if plaintext != confirm {
		return apperror.ErrPasswordMismatch()
	}

	o.draft.PasswordDigest = o.hasher.Hash(plaintext)
	o.persist(ctx)

	o.phrase = o.codes.RecoveryPhrase()
	o.state = domain.StatePhraseConfirm
	return nil
}

// RegeneratePhrase redraws the recovery phrase, fully replacing the previous
// one. Valid any number of times before confirmation.
func (o *Onboarding) RegeneratePhrase() ([]string, error) {
	if o.state != domain.StatePhraseConfirm {
		return nil, apperror.ErrWrongState("seed phrase confirmation")
	}
	o.phrase = o.codes.RecoveryPhrase()
	return o.phrase, nil
}

// ConfirmSeedPhrase completes onboarding. The typed phrase must equal the
// generated one under case-insensitive, whitespace-collapsed comparison and
// the acknowledgement must be set. On success a wallet address is
// synthesized, the complete identity persisted and the machine goes Active.
func (o *Onboarding) ConfirmSeedPhrase(ctx context.Context, typed string, acknowledged bool) error {
	if o.state != domain.StatePhraseConfirm {
		return apperror.ErrWrongState("seed phrase confirmation")
	}
	if !acknowledged {
		return apperror.ErrPhraseNotAcknowledged()
	}
	if normalizePhrase(typed) != normalizePhrase(strings.Join(o.phrase, " ")) {
		return apperror.ErrPhraseMismatch()
	}

	o.draft.RecoveryPhrase = o.phrase
	o.draft.WalletAddress = synthesizeAddress(o.draft.Email, o.phrase)
	o.persist(ctx)

	o.activate(ctx, o.draft)
	return nil
}

// Reset returns the machine to EmailEntry, discarding the session, the
// identity draft and any transient challenges. Used by logout.
func (o *Onboarding) Reset() {
	o.state = domain.StateEmailEntry
	o.draft = domain.Identity{}
	o.otp = nil
	o.phrase = nil
	o.session = nil
	o.cooldownUntil = time.Time{}
}

// activate builds the session record and loads the persisted ledger.
func (o *Onboarding) activate(ctx context.Context, identity domain.Identity) {
	o.session = domain.NewSession(identity, o.cfg.SeedBalances, o.cfg.Prices)

	if txs, err := o.ledger.List(ctx, identity.Email); err != nil {
		o.log.Warn().Err(err).Str("email", identity.Email).Msg("ledger load failed")
	} else {
		o.session.Ledger = txs
	}

	o.phrase = nil
	o.state = domain.StateActive
	o.log.Info().Str("email", identity.Email).Msg("onboarding complete, session active")
}

// persist saves the identity draft. Save failures are absorbed: the tiered
// store already fell back to local storage, and a flow is never aborted over
// persistence.
func (o *Onboarding) persist(ctx context.Context) {
	draft := o.draft
	if err := o.identities.Save(ctx, &draft); err != nil {
		o.log.Warn().Err(err).Str("email", draft.Email).Msg("identity save failed, continuing")
	}
}

func checkPasswordRules(pw string) error {
	switch {
	case len(pw) < minPasswordChars:
		return apperror.ErrWeakPassword("Password must be at least 8 characters")
	case !upperPattern.MatchString(pw):
		return apperror.ErrWeakPassword("Password must contain an uppercase letter")
	case !lowerPattern.MatchString(pw):
		return apperror.ErrWeakPassword("Password must contain a lowercase letter")
	case !digitPattern.MatchString(pw):
		return apperror.ErrWeakPassword("Password must contain a number")
	case !symbolPattern.MatchString(pw):
		return apperror.ErrWeakPassword("Password must contain a special character")
	}
	return nil
}

func normalizePhrase(s string) string {
	return strings.ToLower(strings.TrimSpace(whitespaceRuns.ReplaceAllString(s, " ")))
}

// synthesizeAddress derives an opaque bech32-looking address. This is a
// simulated wallet; no real key derivation happens here.
func synthesizeAddress(email string, phrase []string) string {
	sum := sha256.Sum256([]byte(email + "|" + strings.Join(phrase, " ")))
	return "bc1q" + hex.EncodeToString(sum[:])[:30]
}
