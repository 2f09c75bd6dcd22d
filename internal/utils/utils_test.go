package utils

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash equals plain text")
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Fatal("verify failed for correct password")
	}
	if VerifyPassword(hash, "S3cret") {
		t.Fatal("verify passed for wrong password")
	}
}

func TestPasswordTooLong(t *testing.T) {
	if _, err := HashPassword(strings.Repeat("a", MaxPasswordBytes), 4); err != nil {
		t.Fatalf("hash at limit: %v", err)
	}
	_, err := HashPassword(strings.Repeat("a", MaxPasswordBytes+8), 4)
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("err = %v, want ErrPasswordTooLong", err)
	}
}

func TestAccessTokenParse(t *testing.T) {
	tok, err := NewAccessToken("k1", 42, "worker", 5)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if time.Until(tok.Exp) <= 0 {
		t.Fatalf("exp = %v, want future", tok.Exp)
	}
	c, err := ParseAccessToken("k1", tok.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.UserID != 42 || c.Role != "worker" {
		t.Fatalf("claims = %+v", c)
	}
	if _, err := ParseAccessToken("other-key", tok.Token); err != ErrInvalidToken {
		t.Fatalf("wrong key err = %v, want ErrInvalidToken", err)
	}
	if _, err := ParseAccessToken("k1", "not.a.token"); err != ErrInvalidToken {
		t.Fatalf("garbage err = %v, want ErrInvalidToken", err)
	}
}

func TestAccessTokenRejectsExpiredAndIncomplete(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7", "role": "customer", "exp": time.Now().Add(-time.Minute).Unix(),
	})
	raw, err := expired.SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAccessToken("k", raw); err != ErrInvalidToken {
		t.Fatalf("expired err = %v, want ErrInvalidToken", err)
	}

	noRole := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": float64(7)})
	raw, _ = noRole.SignedString([]byte("k"))
	if _, err := ParseAccessToken("k", raw); err != ErrInvalidToken {
		t.Fatalf("missing role err = %v, want ErrInvalidToken", err)
	}

	numeric := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": float64(7), "role": "customer"})
	raw, _ = numeric.SignedString([]byte("k"))
	c, err := ParseAccessToken("k", raw)
	if err != nil || c.UserID != 7 {
		t.Fatalf("numeric sub = %+v, %v", c, err)
	}
}

func TestRefreshTokens(t *testing.T) {
	a, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b, _ := NewRefreshToken(7)
	if len(a.Raw) != 96 || a.Raw == b.Raw {
		t.Fatalf("raw tokens = %q, %q", a.Raw, b.Raw)
	}
	if d := time.Until(a.Exp); d < 6*24*time.Hour || d > 7*24*time.Hour {
		t.Fatalf("exp in %v, want about 7 days", d)
	}
	h := HashRefreshRaw(a.Raw)
	if len(h) != 64 || strings.Contains(h, a.Raw) || h != HashRefreshRaw(a.Raw) {
		t.Fatalf("hash = %q", h)
	}
}
