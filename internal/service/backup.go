package service

import (
	"fmt"
	"strings"
	"time"

	"secure-wallet/internal/core/domain"
)

const backupTemplate = `SecureWallet Seed Phrase Backup

Date: %s
Email: %s

IMPORTANT SECURITY WARNING:
- Never share this phrase with anyone
- Store this backup in a secure, offline location
- Do not store digitally (cloud, email, etc.)

Seed Phrase:
%s

Instructions:
1. Write this phrase on paper
2. Store in a safe place
3. Keep multiple copies in separate locations
4. Never type this phrase on any device connected to the internet

SecureWallet Team`

// PhraseBackup renders the downloadable backup document for the phrase
// awaiting confirmation. Empty outside the confirmation step.
func (o *Onboarding) PhraseBackup() string {
	if o.state != domain.StatePhraseConfirm || len(o.phrase) == 0 {
		return ""
	}
	return buildPhraseBackup(o.draft.Email, o.phrase, o.now())
}

func buildPhraseBackup(email string, phrase []string, now time.Time) string {
	return fmt.Sprintf(backupTemplate,
		now.Format(time.RFC1123),
		email,
		strings.Join(phrase, " "),
	)
}
