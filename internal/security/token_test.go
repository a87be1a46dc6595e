package security

import (
	"bytes"
	"testing"
)

func TestGenerateSessionToken(t *testing.T) {
	token, hash, err := GenerateSessionToken(48)
	if err != nil {
		t.Fatalf("GenerateSessionToken() err = %v", err)
	}
	if token == "" {
		t.Fatalf("empty token")
	}
	if !bytes.Equal(hash, HashSessionToken(token)) {
		t.Fatalf("returned hash does not match token digest")
	}
}

func TestGenerateSessionTokenUnique(t *testing.T) {
	first, _, err := GenerateSessionToken(0)
	if err != nil {
		t.Fatalf("GenerateSessionToken() err = %v", err)
	}
	second, _, err := GenerateSessionToken(0)
	if err != nil {
		t.Fatalf("GenerateSessionToken() err = %v", err)
	}
	if first == second {
		t.Fatalf("two generated tokens are identical")
	}
}

func TestHashSessionTokenStable(t *testing.T) {
	if !bytes.Equal(HashSessionToken("abc"), HashSessionToken("abc")) {
		t.Fatalf("digest is not deterministic")
	}
	if bytes.Equal(HashSessionToken("abc"), HashSessionToken("abd")) {
		t.Fatalf("distinct tokens share a digest")
	}
}
