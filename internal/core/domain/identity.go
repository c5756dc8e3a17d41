package domain

import "strings"

// Identity is the durable record of a registered wallet user.
// It is keyed by email and built up incrementally during onboarding.
type Identity struct {
	Email          string   `json:"email"`
	PasswordDigest string   `json:"-"` // Never expose
	RecoveryPhrase []string `json:"-"` // 12 words, set once at onboarding
	WalletAddress  string   `json:"wallet_address"`
}

// IsComplete returns true if the identity is dashboard-eligible:
// all four fields populated.
func (i *Identity) IsComplete() bool {
	return i.Email != "" &&
		i.PasswordDigest != "" &&
		len(i.RecoveryPhrase) > 0 &&
		i.WalletAddress != ""
}

// PhraseString returns the recovery phrase joined by single spaces.
func (i *Identity) PhraseString() string {
	return strings.Join(i.RecoveryPhrase, " ")
}

// ShortAddress returns a display-shortened wallet address (first and last
// eight characters). Addresses shorter than 16 characters are returned as-is.
func (i *Identity) ShortAddress() string {
	a := i.WalletAddress
	if len(a) <= 16 {
		return a
	}
	return a[:8] + "..." + a[len(a)-8:]
}
