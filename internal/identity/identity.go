// Package identity resolves bearer credentials to owner ids.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lifemirror/lifemirror/internal/apperr"
)

// Verifier exchanges a bearer credential for a stable owner id.
// Implementations return an error wrapping apperr.ErrUnauthorized for any
// credential they reject.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// JWT verifies HS256 tokens signed with a shared secret. The subject claim
// is the owner id.
type JWT struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewJWT creates a verifier for the given secret. An empty issuer disables
// the issuer check.
func NewJWT(secret, issuer string) *JWT {
	return &JWT{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Verify parses and validates token.
func (j *JWT) Verify(_ context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: missing credential", apperr.ErrUnauthorized)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperr.ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return "", fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", apperr.ErrUnauthorized)
	}
	return claims.Subject, nil
}

// Issue mints a token for subject valid for ttl.
func (j *JWT) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("identity: empty subject")
	}
	if ttl <= 0 {
		return "", errors.New("identity: ttl must be positive")
	}
	now := j.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    j.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("identity: sign token: %w", err)
	}
	return signed, nil
}

// Static resolves every request to one owner. Used when auth is disabled
// for local development.
type Static struct {
	Owner string
}

func (s Static) Verify(context.Context, string) (string, error) {
	if s.Owner == "" {
		return "", fmt.Errorf("%w: no dev owner configured", apperr.ErrUnauthorized)
	}
	return s.Owner, nil
}
