package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/garnizeh/ustabul/pkg/models"
)

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer("test-secret", time.Hour)
	u := &models.User{ID: "u-1", Role: models.RoleEmployer}

	tok, err := iss.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := iss.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "u-1" || claims.Role != models.RoleEmployer {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParse_Expired(t *testing.T) {
	iss := NewIssuer("test-secret", time.Hour)
	issuedAt := time.Now().Add(-2 * time.Hour)
	iss.now = func() time.Time { return issuedAt }

	tok, err := iss.Issue(&models.User{ID: "u-1", Role: models.RoleWorker})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	iss.now = time.Now
	if _, err := iss.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := NewIssuer("one", time.Hour).Issue(&models.User{ID: "u-1", Role: models.RoleWorker})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewIssuer("two", time.Hour).Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_RejectsNoneAlg(t *testing.T) {
	claims := Claims{Role: models.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := NewIssuer("secret", time.Hour).Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg none, got %v", err)
	}
}

func TestParse_Garbage(t *testing.T) {
	if _, err := NewIssuer("secret", time.Hour).Parse("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("test123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "test123" {
		t.Fatalf("hash must not equal the password")
	}
	if !CheckPassword(hash, "test123") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("expected wrong password to fail")
	}
}
