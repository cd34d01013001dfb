// Package hash provides one-way hashing and verification of credentials.
// The same hasher covers account passwords and refresh-token fingerprints.
package hash

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used unless configured otherwise.
const DefaultCost = 12

// Hasher produces salted bcrypt digests with a tunable work factor.
type Hasher struct {
	cost int
}

// New creates a Hasher. Costs outside bcrypt's valid range fall back to
// DefaultCost.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted digest of the secret. The secret is pre-hashed
// with SHA-256 so inputs longer than bcrypt's 72-byte limit (signed
// refresh tokens) hash the same way as short passwords.
func (h *Hasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(prehash(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether the secret matches the digest. A malformed
// digest is treated as a mismatch, never an error.
func (h *Hasher) Verify(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), prehash(secret)) == nil
}

func prehash(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
