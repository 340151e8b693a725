// Package utils provides helpers for password hashing and session tokens.
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures fall into exactly two categories so that callers
// can answer clients differently for an expired session versus a bad token.
var (
	// ErrTokenExpired means the signature verified but the validity window
	// has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers everything else: bad signature, wrong signing
	// algorithm, structurally malformed token.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims are the identity facts embedded in a session token.
type Claims struct {
	UID      uint64 `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// SessionToken is a signed token together with its expiry, as handed back
// to the client and recorded in the session registry.
type SessionToken struct {
	Token  string
	Expiry time.Time
}

// IssueToken signs an HS256 token for the user with a fixed validity
// window starting now.
func IssueToken(secret string, uid uint64, username, role string, ttl time.Duration) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := Claims{
		UID:      uid,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Expiry: exp}, nil
}

// VerifyToken checks signature and expiry and returns the embedded claims.
// The returned error is ErrTokenExpired or ErrTokenInvalid, matchable with
// errors.Is.
func VerifyToken(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tok.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
