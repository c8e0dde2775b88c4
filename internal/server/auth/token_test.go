package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newPair(t *testing.T, key string) (*TokenIssuer, *TokenVerifier) {
	t.Helper()

	secret, err := NewSecret(key)
	if err != nil {
		t.Fatalf("NewSecret error: %v", err)
	}
	iss, err := NewTokenIssuer(secret)
	if err != nil {
		t.Fatalf("NewTokenIssuer error: %v", err)
	}
	ver, err := NewTokenVerifier(secret)
	if err != nil {
		t.Fatalf("NewTokenVerifier error: %v", err)
	}
	iss.now = func() time.Time { return fixedNow }
	ver.now = func() time.Time { return fixedNow }
	return iss, ver
}

func TestNewSecret_Empty(t *testing.T) {
	t.Parallel()

	if _, err := NewSecret(""); !errors.Is(err, common.ErrSigning) {
		t.Fatalf("expected ErrSigning, got %v", err)
	}
	if _, err := NewTokenIssuer(nil); !errors.Is(err, common.ErrSigning) {
		t.Fatalf("expected ErrSigning, got %v", err)
	}
	if _, err := NewTokenVerifier(Secret{}); !errors.Is(err, common.ErrSigning) {
		t.Fatalf("expected ErrSigning, got %v", err)
	}
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()
	iss, ver := newPair(t, "super-secret")

	tok, err := iss.Issue("user-123", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := ver.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Subject != "user-123" || claims.User.ID != "user-123" {
		t.Fatalf("subject mismatch: %+v", claims)
	}
	if !claims.IssuedAt.Time.Equal(fixedNow) {
		t.Fatalf("iat = %v, want %v", claims.IssuedAt.Time, fixedNow)
	}
	if !claims.ExpiresAt.Time.Equal(fixedNow.Add(time.Hour)) {
		t.Fatalf("exp = %v, want %v", claims.ExpiresAt.Time, fixedNow.Add(time.Hour))
	}
}

func TestIssue_Deterministic(t *testing.T) {
	t.Parallel()
	iss, _ := newPair(t, "k")

	a, err := iss.Issue("u1", time.Minute)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	b, err := iss.Issue("u1", time.Minute)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if a != b {
		t.Fatalf("tokens differ for identical input and clock")
	}
}

func TestIssue_EmptySubject(t *testing.T) {
	t.Parallel()
	iss, _ := newPair(t, "k")

	if _, err := iss.Issue("", time.Minute); !errors.Is(err, common.ErrSigning) {
		t.Fatalf("expected ErrSigning, got %v", err)
	}
}

func TestVerify_Expiry(t *testing.T) {
	t.Parallel()
	iss, ver := newPair(t, "k")
	ttl := 10 * time.Minute

	tok, err := iss.Issue("u1", ttl)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	ver.now = func() time.Time { return fixedNow.Add(ttl - time.Second) }
	if _, err := ver.Verify(tok); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	ver.now = func() time.Time { return fixedNow.Add(ttl + time.Second) }
	if _, err := ver.Verify(tok); !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	t.Parallel()
	iss, ver := newPair(t, "k")

	tok, err := iss.Issue("u1", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape %q", tok)
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := ver.Verify(tampered); !errors.Is(err, common.ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestVerify_SignatureTrailingBits(t *testing.T) {
	t.Parallel()
	iss, ver := newPair(t, "k")

	tok, err := iss.Issue("u1", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	last := strings.IndexByte(alphabet, tok[len(tok)-1])
	if last < 0 {
		t.Fatalf("unexpected signature char in %q", tok)
	}
	// the low bits of the final char fall outside the 32 signature bytes
	tampered := tok[:len(tok)-1] + string(alphabet[last^1])

	if tampered == tok {
		t.Fatal("tampered token must differ")
	}
	if _, err := ver.Verify(tampered); !errors.Is(err, common.ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
	if _, err := ver.Verify(tok); err != nil {
		t.Fatalf("original token must still verify: %v", err)
	}
}

func TestVerify_SignatureNotBase64(t *testing.T) {
	t.Parallel()
	iss, ver := newPair(t, "k")

	tok, err := iss.Issue("u1", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	parts := strings.Split(tok, ".")
	tampered := parts[0] + "." + parts[1] + ".!!!!"

	if _, err := ver.Verify(tampered); !errors.Is(err, common.ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()
	iss, _ := newPair(t, "right-secret")
	_, ver := newPair(t, "wrong-secret")

	tok, err := iss.Issue("u1", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := ver.Verify(tok); !errors.Is(err, common.ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()
	_, ver := newPair(t, "k")

	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ver.Verify(none); !errors.Is(err, common.ErrBadSignature) {
		t.Fatalf("alg none: expected ErrBadSignature, got %v", err)
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign HS512: %v", err)
	}
	if _, err := ver.Verify(hs512); !errors.Is(err, common.ErrBadSignature) {
		t.Fatalf("HS512: expected ErrBadSignature, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()
	_, ver := newPair(t, "k")

	noExp, err := jwt.NewWithClaims(signingMethod, jwt.RegisteredClaims{Subject: "u1"}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	noSub, err := jwt.NewWithClaims(signingMethod, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	cases := map[string]string{
		"empty":      "",
		"garbage":    "not-a-token",
		"not a jwt":  "not.a.jwt",
		"bad base64": "###.###.###",
		"two parts":  "eyJhbGciOiJIUzI1NiJ9.e30",
		"no exp":     noExp,
		"no subject": noSub,
	}
	for name, tok := range cases {
		if _, err := ver.Verify(tok); !errors.Is(err, common.ErrMalformedToken) {
			t.Fatalf("%s: expected ErrMalformedToken, got %v", name, err)
		}
	}
}
