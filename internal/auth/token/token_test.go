package token

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
)

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	return node
}

func TestIssueAndValidate(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	userID := mustNode(t).Generate()

	raw, err := issuer.Issue(userID, "alice@example.com", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := issuer.Validate(raw)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}

	parsed, err := claims.UserID()
	if err != nil {
		t.Fatalf("user id: %v", err)
	}
	if parsed != userID {
		t.Fatalf("expected user id %s, got %s", userID, parsed)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	raw, err := issuer.Issue(mustNode(t).Generate(), "bob@example.com", time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := issuer.Validate(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	other := NewIssuer("other-secret", time.Hour)

	raw, err := issuer.Issue(mustNode(t).Generate(), "carol@example.com", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := other.Validate(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestValidateGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	if _, err := issuer.Validate("not.a.token"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
