package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SHA256Hasher implements ports.Hasher with a standard 256-bit digest
// rendered as lowercase hex. This is the primary credential hasher.
type SHA256Hasher struct{}

// NewSHA256Hasher creates the primary hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// Hash returns the lowercase hex SHA-256 digest of the plaintext.
func (h *SHA256Hasher) Hash(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// ChecksumHasher is a deterministic non-cryptographic fallback retained for
// compatibility with records written by runtimes lacking the primary
// primitive. It provides no real security guarantee and must never be the
// default; enable only via security.hash_fallback.
type ChecksumHasher struct{}

// NewChecksumHasher creates the weak fallback hasher.
func NewChecksumHasher() *ChecksumHasher {
	return &ChecksumHasher{}
}

// Hash computes the shift-and-add checksum over the character codes and
// renders the absolute value as hex.
func (h *ChecksumHasher) Hash(plaintext string) string {
	var sum int32
	for _, c := range plaintext {
		sum = (sum << 5) - sum + c
	}
	if sum < 0 {
		sum = -sum
	}
	return fmt.Sprintf("%x", sum)
}
