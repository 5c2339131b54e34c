package auth

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

func mintToken(t *testing.T, secret string, alg jwa.SignatureAlgorithm, mutate func(*jwt.Builder)) string {
	t.Helper()
	now := time.Now()
	builder := jwt.NewBuilder().
		Subject("3b9f6c1e-5b3a-4b44-bf0d-0c9f6a6a2f10").
		Issuer("nextrade").
		IssuedAt(now).
		Expiration(now.Add(time.Minute))
	if mutate != nil {
		mutate(builder)
	}
	built, err := builder.Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	signed, err := jwt.Sign(built, jwt.WithKey(alg, []byte(secret)))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(signed)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(Config{Secret: "super-secret-key", Issuer: "nextrade"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestServiceParseAccessTokenSuccess(t *testing.T) {
	svc := newTestService(t)
	token := mintToken(t, "super-secret-key", jwa.HS256, nil)

	subject, err := svc.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if subject != "3b9f6c1e-5b3a-4b44-bf0d-0c9f6a6a2f10" {
		t.Fatalf("unexpected subject: %s", subject)
	}
}

func TestServiceParseAccessTokenRejectsAlgorithmMismatch(t *testing.T) {
	svc := newTestService(t)
	token := mintToken(t, "super-secret-key", jwa.HS384, nil)

	if _, err := svc.ParseAccessToken(token); err == nil {
		t.Fatal("expected algorithm mismatch error")
	}
}

func TestServiceParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	svc := newTestService(t)
	token := mintToken(t, "super-secret-key", jwa.HS256, func(b *jwt.Builder) {
		b.Issuer("someone-else")
	})

	if _, err := svc.ParseAccessToken(token); err == nil {
		t.Fatal("expected issuer mismatch error")
	}
}

func TestServiceParseAccessTokenRejectsExpired(t *testing.T) {
	svc := newTestService(t)
	stale := time.Now().Add(-2 * time.Hour)
	token := mintToken(t, "super-secret-key", jwa.HS256, func(b *jwt.Builder) {
		b.IssuedAt(stale)
		b.Expiration(stale.Add(time.Minute))
	})

	if _, err := svc.ParseAccessToken(token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestServiceParseAccessTokenRejectsWrongSecret(t *testing.T) {
	svc := newTestService(t)
	token := mintToken(t, "a-different-secret", jwa.HS256, nil)

	if _, err := svc.ParseAccessToken(token); err == nil {
		t.Fatal("expected signature error")
	}
}
