// Package authtoken defines the access token claims shared by the API and
// the membership provider, and mints tokens for local development.
package authtoken

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access token claims. The subject is the numeric member id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AccessToken is a signed JWT along with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// Issue builds and signs an HS256 JWT for a member. A non-positive ttl
// yields a token that is already expired.
func Issue(secret, issuer string, memberID uint64, role string, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(memberID, 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
