package credential_test

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/ErlanBelekov/shiptrack/internal/credential"
	"github.com/ErlanBelekov/shiptrack/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const testKey = "credential-test-secret-32-chars!!"

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := credential.NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash equals plaintext")
	}
	if !h.Compare("secret1", hash) {
		t.Error("correct password rejected")
	}
	if h.Compare("secret2", hash) {
		t.Error("wrong password accepted")
	}
}

func TestPasswordHasher_SaltsEachHash(t *testing.T) {
	h := credential.NewPasswordHasher(bcrypt.MinCost)
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Error("two hashes of the same password are identical")
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := credential.NewTokenIssuer([]byte(testKey), time.Hour)

	tok, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	got, err := issuer.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != "user-1" {
		t.Errorf("subject = %q, want user-1", got)
	}
}

func TestTokenIssuer_TamperedSignature(t *testing.T) {
	issuer := credential.NewTokenIssuer([]byte(testKey), time.Hour)
	tok, _ := issuer.Issue("user-1")

	// Flip a character inside the signature segment, away from the
	// trailing padding bits.
	b := []byte(tok)
	i := len(b) - 10
	if b[i] == 'a' {
		b[i] = 'b'
	} else {
		b[i] = 'a'
	}

	if _, err := issuer.Verify(string(b)); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestTokenIssuer_WrongKey(t *testing.T) {
	tok, _ := credential.NewTokenIssuer([]byte("another-secret-that-is-32-chars!"), time.Hour).Issue("user-1")

	_, err := credential.NewTokenIssuer([]byte(testKey), time.Hour).Verify(tok)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))

	_, err := credential.NewTokenIssuer([]byte(testKey), time.Hour).Verify(tok)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestTokenIssuer_MissingSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))

	_, err := credential.NewTokenIssuer([]byte(testKey), time.Hour).Verify(tok)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestTokenIssuer_RejectsNoneAlg(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)

	_, err := credential.NewTokenIssuer([]byte(testKey), time.Hour).Verify(tok)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

var trackingPattern = regexp.MustCompile(`^FDX[A-Z0-9]{8}$`)

func TestNewTrackingID_Format(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id, err := credential.NewTrackingID()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !trackingPattern.MatchString(id) {
			t.Fatalf("tracking id %q does not match %s", id, trackingPattern)
		}
		seen[id] = true
	}
	if len(seen) < 195 {
		t.Errorf("only %d distinct ids in 200 draws", len(seen))
	}
}

func TestNewVerificationCode_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{6}$`)
	for i := 0; i < 50; i++ {
		code, err := credential.NewVerificationCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("code %q does not match %s", code, pattern)
		}
	}
}
