package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Secret is the HMAC key shared by TokenIssuer and TokenVerifier. It is
// loaded once at startup and never changes afterwards.
type Secret []byte

// NewSecret returns common.ErrSigning for an empty key so that a missing
// secret stops the process before it serves anything.
func NewSecret(key string) (Secret, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: secret is empty", common.ErrSigning)
	}
	return Secret(key), nil
}

var signingMethod = jwt.SigningMethodHS256

// UserClaim is the {"user": {"id": ...}} object existing clients read.
type UserClaim struct {
	ID string `json:"id"`
}

// Claims is the token payload: the user object plus sub, iat and exp.
type Claims struct {
	User UserClaim `json:"user"`
	jwt.RegisteredClaims
}

// TokenIssuer signs tokens for authenticated users. Safe for concurrent use.
type TokenIssuer struct {
	secret Secret
	now    func() time.Time
}

func NewTokenIssuer(secret Secret) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: secret is empty", common.ErrSigning)
	}
	return &TokenIssuer{secret: secret, now: time.Now}, nil
}

// Issue returns a signed token for subject valid for ttl from now. Two calls
// with the same subject, ttl and clock reading produce the same token.
func (i *TokenIssuer) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("%w: empty subject", common.ErrSigning)
	}

	now := i.now()
	claims := Claims{
		User: UserClaim{ID: subject},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(i.secret))
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrSigning, err)
	}
	return signed, nil
}

// TokenVerifier checks tokens produced by TokenIssuer. Safe for concurrent use.
type TokenVerifier struct {
	secret Secret
	now    func() time.Time
}

func NewTokenVerifier(secret Secret) (*TokenVerifier, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: secret is empty", common.ErrSigning)
	}
	return &TokenVerifier{secret: secret, now: time.Now}, nil
}

// Verify parses token and checks its signature and expiry. It returns
// common.ErrBadSignature, common.ErrTokenExpired or common.ErrMalformedToken;
// any input, however broken, yields one of these rather than a panic.
func (v *TokenVerifier) Verify(token string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
		jwt.WithStrictDecoding(),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(v.secret), nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, common.ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, common.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed) && badSignatureEncoding(parser, token):
		return nil, common.ErrBadSignature
	default:
		return nil, common.ErrMalformedToken
	}

	if claims.Subject == "" {
		return nil, common.ErrMalformedToken
	}
	return claims, nil
}

// badSignatureEncoding reports whether token has a well-formed header and
// payload but a signature segment that is not canonical base64url, such as
// one with non-zero trailing bits.
func badSignatureEncoding(p *jwt.Parser, token string) bool {
	_, parts, err := p.ParseUnverified(token, &Claims{})
	if err != nil || len(parts) != 3 {
		return false
	}
	_, err = p.DecodeSegment(parts[2])
	return err != nil
}
