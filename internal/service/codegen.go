package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const alphaLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// wordList is the fixed vocabulary recovery phrases are drawn from.
var wordList = []string{
	"firewall", "malware", "phishing", "authentication", "hashing", "intrusion", "authorization", "exploit",
	"vulnerability", "patch", "zero day", "sandbox", "computer", "accuse", "trojan", "backdoor",
	"spy", "keylogger", "cryptography", "packets", "action", "penetration", "actress", "white",
	"incident", "protocol", "vpn", "audit", "rainbow", "kernel", "sniffing", "alert",
}

// RandomCodeGenerator implements ports.CodeGenerator using crypto/rand.
// Every call is independent of prior state.
type RandomCodeGenerator struct{}

// NewRandomCodeGenerator creates a new RandomCodeGenerator.
func NewRandomCodeGenerator() *RandomCodeGenerator {
	return &RandomCodeGenerator{}
}

// NumericCode returns a 6-digit OTP, uniform over 100000-999999 inclusive.
// The range guarantees six characters without leading-zero handling.
func (g *RandomCodeGenerator) NumericCode() string {
	n := randInt(900000)
	return fmt.Sprintf("%06d", 100000+n)
}

// AlphaCode returns a 4-letter send-code; each letter is an independent
// uniform draw from A-Z, repeats allowed.
func (g *RandomCodeGenerator) AlphaCode() string {
	code := make([]byte, 4)
	for i := range code {
		code[i] = alphaLetters[randInt(int64(len(alphaLetters)))]
	}
	return string(code)
}

// RecoveryPhrase returns 12 distinct words drawn without replacement from
// the word list.
func (g *RandomCodeGenerator) RecoveryPhrase() []string {
	phrase := make([]string, 0, 12)
	used := make(map[int]bool, 12)
	for len(phrase) < 12 {
		idx := int(randInt(int64(len(wordList))))
		if used[idx] {
			continue
		}
		used[idx] = true
		phrase = append(phrase, wordList[idx])
	}
	return phrase
}

// randInt returns a uniform random int in [0, max). crypto/rand failure
// means the platform entropy source is broken; that is not recoverable.
func randInt(max int64) int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return n.Int64()
}
