package auth

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/devconnector/internal/common"
)

// Verifier is the part of TokenVerifier the gate depends on.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// AccessGate authenticates requests to protected routes. It holds no state
// besides the verifier.
type AccessGate struct {
	verifier Verifier
}

func NewAccessGate(v Verifier) *AccessGate {
	return &AccessGate{verifier: v}
}

// Authenticate reads the token from "Authorization: Bearer <token>" or, when
// that header is absent, from x-auth-token. Callers must reject the request
// on any returned error.
func (g *AccessGate) Authenticate(r *http.Request) (Identity, error) {
	token, err := extractToken(r.Header)
	if err != nil {
		return Identity{}, err
	}

	claims, err := g.verifier.Verify(token)
	if err != nil {
		return Identity{}, err
	}
	return Identity{Subject: claims.Subject}, nil
}

func extractToken(h http.Header) (string, error) {
	if v := strings.TrimSpace(h.Get(common.AuthorizationHeaderName)); v != "" {
		scheme, token, ok := strings.Cut(v, " ")
		if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
			return "", common.ErrMalformedToken
		}
		return strings.TrimSpace(token), nil
	}

	if token := strings.TrimSpace(h.Get(common.LegacyTokenHeaderName)); token != "" {
		return token, nil
	}
	return "", common.ErrMissingToken
}
