package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 12

const tokenBytes = 32

// MintToken generates a random bearer token. The raw token is shown to
// the operator exactly once; only its digest is stored.
func MintToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken digests a bearer token for storage.
func HashToken(token string) (string, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", fmt.Errorf("token is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(trimmed), DefaultBcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash token: %w", err)
	}
	return string(hash), nil
}

// VerifyToken reports whether a presented token matches a stored digest.
func VerifyToken(token, digest string) bool {
	trimmedToken := strings.TrimSpace(token)
	trimmedDigest := strings.TrimSpace(digest)
	if trimmedToken == "" || trimmedDigest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(trimmedDigest), []byte(trimmedToken)) == nil
}

// Fingerprint condenses a token for in-memory caching of verified
// tokens, keeping the raw token out of long-lived state.
func Fingerprint(token string) [sha256.Size]byte {
	return sha256.Sum256([]byte(strings.TrimSpace(token)))
}

// NormalizeTokenName lowercases and trims an operator-chosen token name.
func NormalizeTokenName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
