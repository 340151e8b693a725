package utils

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "unit-test-secret"

func TestIssueVerifyRoundTrip(t *testing.T) {
	tok, err := IssueToken(testSecret, 42, "alice", "Customer", 24*time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if tok.Token == "" {
		t.Fatalf("empty token")
	}
	if until := time.Until(tok.Expiry); until < 23*time.Hour || until > 24*time.Hour {
		t.Fatalf("unexpected expiry window: %v", until)
	}

	claims, err := VerifyToken(testSecret, tok.Token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.UID != 42 || claims.Username != "alice" || claims.Role != "Customer" {
		t.Fatalf("claims do not round-trip: %+v", claims)
	}
}

func TestVerifyExpired(t *testing.T) {
	tok, err := IssueToken(testSecret, 7, "bob", "Customer", -time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	_, err = VerifyToken(testSecret, tok.Token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	tok, err := IssueToken(testSecret, 7, "bob", "Customer", time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	parts := strings.Split(tok.Token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape")
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = VerifyToken(testSecret, tampered)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	tok, err := IssueToken(testSecret, 7, "bob", "Customer", time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := VerifyToken("another-secret", tok.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	for _, raw := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := VerifyToken(testSecret, raw); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("raw=%q: expected ErrTokenInvalid, got %v", raw, err)
		}
	}
}

// An expired token must never be reported as invalid, and a tampered one
// never as expired; the middleware answers differently for each.
func TestErrorCategoriesDistinct(t *testing.T) {
	if errors.Is(ErrTokenExpired, ErrTokenInvalid) || errors.Is(ErrTokenInvalid, ErrTokenExpired) {
		t.Fatalf("error categories overlap")
	}
}
