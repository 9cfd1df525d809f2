// Package auth issues and verifies the signed bearer tokens that carry a caller's identity.
package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"pawmart/internal/domain"
)

// ErrInvalidToken covers every verification failure: bad signature, malformed, expired.
var ErrInvalidToken = errors.New("invalid token")

// DefaultTTL is the validity window of an issued token.
const DefaultTTL = 7 * 24 * time.Hour

// Identity is the verified caller derived from a token.
type Identity struct {
	UserID string
	Email  string
	Role   domain.Role
}

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock swaps the time source; used by tests to exercise expiry.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	cp := *t
	cp.now = now
	return &cp
}

func (t *Tokens) Issue(u *domain.User) (string, error) {
	now := t.now()
	claims := Claims{
		Email: u.Email,
		Role:  string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *Tokens) Verify(tokenStr string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || c.Subject == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: c.Subject, Email: c.Email, Role: domain.Role(c.Role)}, nil
}
