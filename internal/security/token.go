package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// GenerateSessionToken returns a fresh opaque bearer token and the
// sha256 digest under which it is stored. The plaintext is returned to
// the client once and never persisted.
func GenerateSessionToken(length int) (string, []byte, error) {
	if length <= 0 {
		length = 48
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", nil, fmt.Errorf("generate session token: %w", err)
	}

	token := base64.RawURLEncoding.EncodeToString(buf)
	return token, HashSessionToken(token), nil
}

func HashSessionToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}
