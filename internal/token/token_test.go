package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", 15*time.Minute, 7*24*time.Hour)
	userID := uuid.New()

	signed, err := issuer.IssueAccessToken(userID, "a@b.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := issuer.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Email != "a@b.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	got, err := claims.UserID()
	if err != nil || got != userID {
		t.Fatalf("unexpected subject %v (err=%v)", got, err)
	}
}

func TestVerifyExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute, 7*24*time.Hour)
	signed, err := issuer.IssueAccessToken(uuid.New(), "a@b.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Verify(signed); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestVerifyTampered(t *testing.T) {
	issuer := NewIssuer("test-secret", 15*time.Minute, 7*24*time.Hour)
	signed, err := issuer.IssueAccessToken(uuid.New(), "a@b.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(signed, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]
	if _, err := issuer.Verify(tampered); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	signed, err := NewIssuer("secret-one", 15*time.Minute, time.Hour).IssueAccessToken(uuid.New(), "a@b.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewIssuer("secret-two", 15*time.Minute, time.Hour).Verify(signed); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret", 15*time.Minute, time.Hour)
	for _, in := range []string{"", "null", "not.a.jwt"} {
		if _, err := issuer.Verify(in); !errors.Is(err, ErrInvalid) {
			t.Fatalf("input %q: expected ErrInvalid, got %v", in, err)
		}
	}
}
