// Package auth issues and verifies the signed, time-bound tokens that
// carry a user's identity and role.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/postboard/postboard/internal/domain"
)

// Issuer is the iss claim stamped on every token.
const Issuer = "postboard"

// Internal verification outcomes. Callers collapse both into one opaque
// unauthorized error; the distinction exists for logging only.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the payload carried by both access and refresh tokens: the
// subject id plus email and role, with standard issued-at/expiry fields.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies token pairs. Access and refresh tokens
// are signed with distinct secrets, so compromising one kind cannot be
// used to mint the other.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewTokenIssuer creates a TokenIssuer over the two signing secrets and
// their expiry windows.
func NewTokenIssuer(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// IssueAccess mints a short-lived access token for the user.
func (t *TokenIssuer) IssueAccess(userID, email string, role domain.Role) (string, error) {
	return t.sign(userID, email, role, t.accessSecret, t.accessExpiry)
}

// IssueRefresh mints a long-lived refresh token for the user.
func (t *TokenIssuer) IssueRefresh(userID, email string, role domain.Role) (string, error) {
	return t.sign(userID, email, role, t.refreshSecret, t.refreshExpiry)
}

// VerifyAccess validates an access token and returns its claims.
func (t *TokenIssuer) VerifyAccess(token string) (*Claims, error) {
	return verify(token, t.accessSecret)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (t *TokenIssuer) VerifyRefresh(token string) (*Claims, error) {
	return verify(token, t.refreshSecret)
}

func (t *TokenIssuer) sign(userID, email string, role domain.Role, secret []byte, expiry time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		Email: email,
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			// The unique ID makes every minted token distinct, so a
			// rotated-in refresh token never collides with the digest of
			// the one it replaces.
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func verify(token string, secret []byte) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
