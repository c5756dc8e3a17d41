package domain

import "time"

// AttemptState labels the throttle state derived from an attempt record.
type AttemptState string

const (
	AttemptStateClear  AttemptState = "CLEAR"
	AttemptStateWarned AttemptState = "WARNED"
	AttemptStateLocked AttemptState = "LOCKED"
)

// AttemptRecord tracks failed verification attempts per email. It is the
// only cross-session durable state in the verification flow. A zero record
// means the email has never failed (Clear).
type AttemptRecord struct {
	FailCount    int        `json:"fail_count"`
	LockoutUntil *time.Time `json:"lockout_until,omitempty"`
}

// Locked reports whether a lockout is active at the given instant. The
// record is not auto-cleared by time; this is a read-time comparison.
func (r *AttemptRecord) Locked(now time.Time) bool {
	return r.LockoutUntil != nil && now.Before(*r.LockoutUntil)
}

// State derives the throttle state at the given instant.
func (r *AttemptRecord) State(now time.Time) AttemptState {
	switch {
	case r.Locked(now):
		return AttemptStateLocked
	case r.FailCount > 0:
		return AttemptStateWarned
	default:
		return AttemptStateClear
	}
}
