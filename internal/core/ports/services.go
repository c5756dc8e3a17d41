package ports

import (
	"context"
	"time"
)

// Hasher produces a one-way digest of a plaintext credential. Only digest
// creation is exercised by the flows; equality of digests is the check.
type Hasher interface {
	Hash(plaintext string) string
}

// CodeGenerator produces the random artifacts used by the verification
// flows. Calls are independent; the generator holds no state.
type CodeGenerator interface {
	// NumericCode returns a 6-digit OTP, uniform over 100000-999999.
	NumericCode() string
	// AlphaCode returns a 4-letter send-code, each letter uniform over A-Z.
	AlphaCode() string
	// RecoveryPhrase returns 12 distinct words drawn without replacement
	// from the fixed word list.
	RecoveryPhrase() []string
}

// Mailer dispatches a one-time code to an address. Delivery is at-most-once
// and fire-and-forget; only the success or failure of the call itself is
// observed.
type Mailer interface {
	SendCode(ctx context.Context, toAddress, code string) error
}

// TokenService mints and validates the session token handed out when
// onboarding reaches the active state.
type TokenService interface {
	Generate(email string) (string, time.Time, error)
	Validate(tokenString string) (string, error) // returns the email subject
}
