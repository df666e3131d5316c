// Package identity maps authenticated callers to ledger owner keys.
package identity

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a session token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken signs a session token for the given identity.
func GenerateToken(secret, email string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	now := time.Now()
	claims := &Claims{
		Email: strings.ToLower(strings.TrimSpace(email)),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken parses and verifies a session token.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// Resolver maps an authenticated email to the owner key its ledger lives
// under.
//
// Members of the household allow-list share a single ledger, so every one
// of them resolves to the same key. Everyone else gets a ledger of their
// own, keyed by their normalized email.
type Resolver struct {
	householdKey string
	household    map[string]bool
}

// NewResolver returns a resolver with the given household allow-list.
func NewResolver(householdKey string, householdEmails []string) *Resolver {
	household := make(map[string]bool, len(householdEmails))
	for _, email := range householdEmails {
		household[strings.ToLower(strings.TrimSpace(email))] = true
	}

	return &Resolver{
		householdKey: householdKey,
		household:    household,
	}
}

// OwnerKey returns the owner key for the identity.
func (r *Resolver) OwnerKey(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	if r.household[email] {
		return r.householdKey
	}

	return email
}
