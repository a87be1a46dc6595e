package security

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword() err = %v", err)
	}

	if strings.Contains(string(hash), "correct horse battery") {
		t.Fatalf("hash contains plaintext password")
	}
	if !strings.HasPrefix(string(hash), "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword("correct horse battery", hash)
	if err != nil {
		t.Fatalf("VerifyPassword() err = %v", err)
	}
	if !ok {
		t.Fatalf("expected password to verify")
	}
}

func TestVerifyPasswordRejectsWrongPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword() err = %v", err)
	}

	ok, err := VerifyPassword("secret2", hash)
	if err != nil {
		t.Fatalf("VerifyPassword() err = %v", err)
	}
	if ok {
		t.Fatalf("wrong password verified")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("whatever", []byte("not-a-hash")); err == nil {
		t.Fatalf("expected error for malformed hash")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	first, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword() err = %v", err)
	}
	second, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword() err = %v", err)
	}
	if string(first) == string(second) {
		t.Fatalf("two hashes of the same password are identical")
	}
}
