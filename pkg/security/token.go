// Package security authenticates users and guards the REST API with JWT access tokens.
package security

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	kdb "github.com/opensilex/phis/pkg/db"
	xe "github.com/opensilex/phis/pkg/errors"
)

var ErrInvalidToken = errors.New("invalid token")

// shortest HS256 key accepted, in bytes.
const MinKeyLength = 32

// Claims of access tokens. Subject is the user URI.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Admin bool   `json:"admin"`
	Lang  string `json:"lang,omitempty"`
}

type TokenIssuer struct {
	key    []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type IssuerOption func(*TokenIssuer)

// WithClock replaces the clock used for issuing and verifying tokens.
func WithClock(now func() time.Time) IssuerOption {
	return func(ti *TokenIssuer) {
		ti.now = now
	}
}

// NewTokenIssuer creates issuer of HS256 tokens.
//
// # Args
//
// - key: secret key, at least MinKeyLength bytes.
//
// - ttl: lifetime of tokens.
//
// - issuer: "iss" claim.
func NewTokenIssuer(key []byte, ttl time.Duration, issuer string, opts ...IssuerOption) (*TokenIssuer, error) {
	if len(key) < MinKeyLength {
		return nil, fmt.Errorf("key is too short: %d bytes < %d bytes", len(key), MinKeyLength)
	}
	ti := &TokenIssuer{key: key, ttl: ttl, issuer: issuer, now: time.Now}
	for _, o := range opts {
		o(ti)
	}
	return ti, nil
}

// LoadKey reads a key file. Leading and trailing spaces are trimmed.
func LoadKey(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return []byte(strings.TrimSpace(string(b))), nil
}

// Issue creates a token for user.
func (ti *TokenIssuer) Issue(user kdb.User) (string, time.Time, error) {
	now := ti.now().Truncate(time.Second)
	exp := now.Add(ti.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ti.issuer,
			Subject:   user.URI,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email: user.Email,
		Admin: user.Admin,
		Lang:  user.Language,
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.key)
	if err != nil {
		return "", time.Time{}, xe.Wrap(err)
	}
	return tok, exp, nil
}

// Verify checks the token and returns its claims.
//
// Malformed, expired, or wrongly signed tokens, or tokens of other issuers are ErrInvalidToken.
func (ti *TokenIssuer) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token, claims,
		func(t *jwt.Token) (any, error) { return ti.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(ti.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	return claims, nil
}
