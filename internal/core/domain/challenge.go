package domain

import (
	"strings"
	"time"
)

// Challenge is a transient one-time verification code. Two independent
// instances exist during a session: the onboarding OTP and the per-send
// alpha code. Challenges live in memory only and are cleared on successful
// verification or on expiry detection.
type Challenge struct {
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewChallenge creates a challenge valid for the given window.
func NewChallenge(code string, now time.Time, ttl time.Duration) *Challenge {
	return &Challenge{Code: code, IssuedAt: now, ExpiresAt: now.Add(ttl)}
}

// Expired reports whether the challenge is past its window at the given
// instant. Expiry is evaluated lazily against wall-clock time at the moment
// of use, never by a background timer.
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Matches compares an entered code against the challenge, case-insensitively
// and ignoring surrounding whitespace.
func (c *Challenge) Matches(entered string) bool {
	return strings.EqualFold(strings.TrimSpace(entered), c.Code)
}

// Remaining returns the validity left at the given instant, floored at zero.
func (c *Challenge) Remaining(now time.Time) time.Duration {
	if d := c.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
