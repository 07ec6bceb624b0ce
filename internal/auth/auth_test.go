package auth

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", WithIssuer("test-issuer"))
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	p := NewPrincipal("user-42", "clerk", []string{"member.findAll", "member.findAll", "envelope.create"})
	token, expires, err := issuer.Issue(p, 30*time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(expires) <= 0 {
		t.Fatalf("expected future expiration, got %v", expires)
	}

	got, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.UserID() != "user-42" || got.RoleName() != "clerk" {
		t.Fatalf("unexpected principal: %+v", got)
	}
	if !slices.Equal(got.AllowedActions(), []string{"member.findAll", "envelope.create"}) {
		t.Fatalf("actions were not preserved: %v", got.AllowedActions())
	}
}

func TestParseRejectsInvalidTokens(t *testing.T) {
	now := time.Now()
	issuer, _ := NewTokenIssuer("secret-a", WithClock(func() time.Time { return now }))
	other, _ := NewTokenIssuer("secret-b")

	token, _, err := issuer.Issue(NewPrincipal("u1", "", nil), time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := other.Parse(token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated for foreign signature, got %v", err)
	}
	if _, err := issuer.Parse(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for empty input, got %v", err)
	}

	later, _ := NewTokenIssuer("secret-a", WithClock(func() time.Time { return now.Add(2 * time.Minute) }))
	if _, err := later.Parse(token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestIssueValidation(t *testing.T) {
	if _, err := NewTokenIssuer("  "); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected missing secret, got %v", err)
	}
	issuer, _ := NewTokenIssuer("secret")
	if _, _, err := issuer.Issue(NewPrincipal("", "", nil), time.Minute); err == nil {
		t.Fatalf("expected error for empty user id")
	}
	if _, _, err := issuer.Issue(NewPrincipal("u1", "", nil), 0); err == nil {
		t.Fatalf("expected error for zero ttl")
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if _, ok := SessionFromContext(ctx); ok {
		t.Fatalf("unexpected session in empty context")
	}
	ctx = ContextWithSession(ctx, NewPrincipal("user-7", "admin", nil))
	ctx = ContextWithToken(ctx, "tok")
	id, ok := UserIDFromContext(ctx)
	if !ok || id != "user-7" {
		t.Fatalf("unexpected user id: %s, ok=%v", id, ok)
	}
	if tok, ok := TokenFromContext(ctx); !ok || tok != "tok" {
		t.Fatalf("unexpected token: %s, ok=%v", tok, ok)
	}
	base := context.Background()
	if got := ContextWithToken(base, ""); got != base {
		t.Fatalf("empty token should not wrap context")
	}
}
