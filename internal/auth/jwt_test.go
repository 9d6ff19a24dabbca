package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret-key", time.Hour)

	tok, err := issuer.Issue(1, "jiani")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if tok.Value == "" || tok.ID == "" {
		t.Fatalf("expected token value and id, got %+v", tok)
	}

	claims, err := issuer.Verify(tok.Value)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != 1 {
		t.Errorf("expected user_id 1, got %d", claims.UserID)
	}
	if claims.Username != "jiani" {
		t.Errorf("expected username 'jiani', got %q", claims.Username)
	}
	if claims.ID != tok.ID {
		t.Errorf("expected jti %q, got %q", tok.ID, claims.ID)
	}
	if !claims.ExpiresAt.Time.Equal(tok.ExpiresAt) {
		t.Errorf("claims expire at %v, token reports %v", claims.ExpiresAt.Time, tok.ExpiresAt)
	}
}

func TestIssueUsesTTL(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	issuer := NewIssuer("s", 90*time.Minute, WithIssuerClock(func() time.Time { return now }))

	tok, err := issuer.Issue(1, "u")
	if err != nil {
		t.Fatal(err)
	}
	if want := now.Add(90 * time.Minute); !tok.ExpiresAt.Equal(want) {
		t.Errorf("expected expiry %v, got %v", want, tok.ExpiresAt)
	}
	if NewIssuer("s", 0).TTL() != DefaultTokenTTL {
		t.Error("expected zero ttl to fall back to the default")
	}
}

func TestVerifyRejects(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	issuer := NewIssuer("secret1", time.Hour, WithIssuerClock(clock))
	tok, _ := issuer.Issue(1, "u")

	foreign, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "x",
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte("secret1"))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "x", Issuer: TokenIssuer},
	}).SignedString([]byte("secret1"))

	tests := []struct {
		name   string
		issuer *Issuer
		token  string
	}{
		{"wrong secret", NewIssuer("secret2", time.Hour, WithIssuerClock(clock)), tok.Value},
		{"garbage", issuer, "not-a-token"},
		{"expired", NewIssuer("secret1", time.Hour, WithIssuerClock(func() time.Time { return now.Add(2 * time.Hour) })), tok.Value},
		{"other issuer", issuer, foreign},
		{"no expiry", issuer, noExpiry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.issuer.Verify(tt.token); err == nil {
				t.Error("expected verification to fail")
			}
		})
	}
}

func TestTokensGetDistinctIDs(t *testing.T) {
	issuer := NewIssuer("s", time.Hour)
	a, _ := issuer.Issue(1, "u")
	b, _ := issuer.Issue(1, "u")
	if a.ID == b.ID {
		t.Errorf("expected distinct token ids, both %q", a.ID)
	}
}
