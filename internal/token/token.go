// Package token issues and validates the stateless bearer proofs
// returned by login. Tokens are HS256 JWTs carrying the normalized
// email as subject; validation needs no store lookup.
package token

import (
	"errors"
	"fmt"
	"time"

	"authgate/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewIssuer(key []byte, ttl time.Duration) *Issuer {
	return &Issuer{key: key, ttl: ttl, now: time.Now}
}

// Issue signs a token asserting identity for subject, valid from now
// until now+ttl.
func (i *Issuer) Issue(subject string) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate recomputes the signature and checks expiry. It returns the
// subject, domain.ErrTokenExpired for an elapsed window, and
// domain.ErrTokenInvalid for everything else wrong with the token.
func (i *Issuer) Validate(raw string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)

	parsed, err := parser.Parse(raw, func(t *jwt.Token) (any, error) {
		return i.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrTokenInvalid
	}
	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", domain.ErrTokenInvalid
	}
	return subject, nil
}
