package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/sha256" // SHA-256 hashing for refresh tokens
	"encoding/hex"  // hex encoding of digests
	"errors"        // sentinel errors for token verification
	"strconv"       // numeric claim parsing
	"time"          // expiration handling

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken is returned when a token fails signature or expiry
// verification, or when its claims are not in the expected shape.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short-lived, carry the identity claims (subject and
// username) and are presented on every protected request, either in the
// Authorization header or in the accessToken cookie.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// RefreshToken represents a long-lived token used to obtain new access
// tokens. The Raw field is returned to the client (and mirrored into the
// refreshToken cookie); only its SHA-256 hash is persisted on the user
// record, in the single refresh token slot.
type RefreshToken struct {
	Raw string    // raw signed JWT returned to the client
	Exp time.Time // UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user. The JWT
// includes the subject (sub), the username, expiration (exp) and
// issued at (iat) claims.
func NewAccessToken(secret string, userID uint64, username string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs an HS256 JWT carrying only the subject
// claim. Refresh tokens are signed with a secret distinct from the access
// token secret and live for ttlDays days.
func NewRefreshToken(secret string, userID uint64, ttlDays int) (RefreshToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{Raw: signed, Exp: exp}, nil
}

// ParseAccessToken verifies an access token and returns the subject and
// username claims. Expired or tampered tokens yield ErrInvalidToken.
func ParseAccessToken(secret, raw string) (uint64, string, error) {
	claims, err := parseHS256(secret, raw)
	if err != nil {
		return 0, "", err
	}
	uid, ok := subjectID(claims)
	if !ok {
		return 0, "", ErrInvalidToken
	}
	username, _ := claims["username"].(string)
	return uid, username, nil
}

// ParseRefreshToken verifies a refresh token and returns the subject claim.
func ParseRefreshToken(secret, raw string) (uint64, error) {
	claims, err := parseHS256(secret, raw)
	if err != nil {
		return 0, err
	}
	uid, ok := subjectID(claims)
	if !ok {
		return 0, ErrInvalidToken
	}
	return uid, nil
}

// HashRefreshRaw returns the SHA-256 hash of the raw refresh token as a hex
// string. Only the hash is stored in the refresh token slot, so a stolen
// database row cannot be replayed as a live session.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// parseHS256 parses a token, enforcing the HMAC signing method.
func parseHS256(secret, raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// subjectID extracts the sub claim as a uint64. JWT numeric values decode
// as float64; string subjects are parsed as decimal.
func subjectID(claims jwt.MapClaims) (uint64, bool) {
	switch v := claims["sub"].(type) {
	case float64:
		return uint64(v), true
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
