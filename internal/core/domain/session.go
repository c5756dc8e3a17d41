package domain

import "fmt"

// OnboardingState is a step in the identity-establishment flow. Transitions
// are strictly forward; the only backward path is an explicit restart.
type OnboardingState string

const (
	StateEmailEntry    OnboardingState = "EMAIL_ENTRY"
	StateOTPPending    OnboardingState = "OTP_PENDING"
	StatePasswordSetup OnboardingState = "PASSWORD_SETUP"
	StatePhraseConfirm OnboardingState = "PHRASE_CONFIRM"
	StateActive        OnboardingState = "ACTIVE"
)

// Session is the mutable per-user aggregate: identity, simulated balances
// and the transaction ledger. It is exclusively owned by the current flow
// and threaded explicitly through operations; there is no ambient global.
type Session struct {
	Identity Identity
	Balances map[Currency]Balance
	Ledger   []Transaction
}

// NewSession builds a session with the given identity and seeds the
// simulated balances, computing reference values from the price table.
func NewSession(identity Identity, seed map[Currency]float64, prices PriceTable) *Session {
	balances := make(map[Currency]Balance, len(seed))
	for cur, amount := range seed {
		balances[cur] = Balance{
			Amount:         amount,
			ReferenceValue: amount * prices.Price(cur),
		}
	}
	return &Session{Identity: identity, Balances: balances}
}

// Balance returns the position for a currency; a zero balance if unknown.
func (s *Session) Balance(c Currency) Balance {
	return s.Balances[c]
}

// Debit subtracts total from the currency balance and recomputes the
// reference value. It fails without mutating anything if the balance would
// go negative, returning the required total for the error message.
func (s *Session) Debit(c Currency, total float64, prices PriceTable) error {
	bal, ok := s.Balances[c]
	if !ok || total > bal.Amount {
		return fmt.Errorf("insufficient %s balance: need %g, have %g", c, total, bal.Amount)
	}
	bal.Amount -= total
	bal.ReferenceValue = bal.Amount * prices.Price(c)
	s.Balances[c] = bal
	return nil
}

// Prepend inserts a transaction at the head of the ledger, maintaining the
// newest-first ordering invariant by insertion order.
func (s *Session) Prepend(tx Transaction) {
	s.Ledger = append([]Transaction{tx}, s.Ledger...)
}

// TotalReferenceValue sums the reference values of all balances.
func (s *Session) TotalReferenceValue() float64 {
	var total float64
	for _, b := range s.Balances {
		total += b.ReferenceValue
	}
	return total
}
