package service

import (
	"context"
	"fmt"
	"time"

	"secure-wallet/internal/core/domain"
	"secure-wallet/internal/core/ports"
	"secure-wallet/pkg/apperror"

	"github.com/rs/zerolog"
)

// Throttle limits repeated failed verification attempts per email.
// State machine per email: Clear -> Warned(n) -> Locked. Lockout expiry is
// evaluated lazily at read time; records are never auto-cleared by time.
type Throttle struct {
	attempts    ports.AttemptRepository
	maxFailures int
	lockout     time.Duration
	log         zerolog.Logger
	now         func() time.Time
}

// NewThrottle creates a Throttle over the given attempt store.
func NewThrottle(attempts ports.AttemptRepository, maxFailures int, lockout time.Duration, log zerolog.Logger) *Throttle {
	return &Throttle{
		attempts:    attempts,
		maxFailures: maxFailures,
		lockout:     lockout,
		log:         log,
		now:         time.Now,
	}
}

// CheckAdmission is the read-only gate consulted before issuing a new OTP
// and before accepting a verification attempt. A never-seen email is treated
// as Clear; the record is lazily created without counting an attempt.
func (t *Throttle) CheckAdmission(ctx context.Context, email string) error {
	rec, err := t.get(ctx, email)
	if err != nil {
		return err
	}
	if rec.Locked(t.now()) {
		return apperror.ErrTooManyAttempts()
	}
	return nil
}

// RecordFailure increments the fail counter. Reaching the failure limit
// transitions to Locked with lockoutUntil = now + lockout window. A failure
// reported while already locked is rejected without incrementing.
func (t *Throttle) RecordFailure(ctx context.Context, email string) (domain.AttemptState, error) {
	rec, err := t.get(ctx, email)
	if err != nil {
		return "", err
	}

	now := t.now()
	if rec.Locked(now) {
		return domain.AttemptStateLocked, nil
	}

	rec.FailCount++
	if rec.FailCount >= t.maxFailures {
		until := now.Add(t.lockout)
		rec.LockoutUntil = &until
		t.log.Warn().
			Str("email", email).
			Int("fail_count", rec.FailCount).
			Time("lockout_until", until).
			Msg("verification attempts locked out")
	}

	if err := t.attempts.Put(ctx, email, rec); err != nil {
		return "", apperror.ErrPersistence(fmt.Errorf("record failure: %w", err))
	}
	return rec.State(now), nil
}

// RecordSuccess unconditionally resets the record to Clear. Resetting an
// already-clear record is a no-op by construction.
func (t *Throttle) RecordSuccess(ctx context.Context, email string) error {
	if err := t.attempts.Put(ctx, email, &domain.AttemptRecord{}); err != nil {
		return apperror.ErrPersistence(fmt.Errorf("record success: %w", err))
	}
	return nil
}

func (t *Throttle) get(ctx context.Context, email string) (*domain.AttemptRecord, error) {
	rec, err := t.attempts.Get(ctx, email)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("load attempt record: %w", err))
	}
	if rec == nil {
		rec = &domain.AttemptRecord{}
	}
	return rec, nil
}
