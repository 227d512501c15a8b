// Package auth issues and verifies the HMAC-signed access and refresh tokens
// consumed by the JWT middleware. Claims carry the user id as the subject and
// the role under a dedicated key, matching what the middleware extracts.
package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/academix-go-api/internal/models"
)

// Claims are the token claims shared by access and refresh tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs access and refresh tokens with separate secrets.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenIssuer builds a token issuer. TTLs fall back to 5 minutes for
// access tokens and 30 days for refresh tokens when unset.
func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	if accessTTL <= 0 {
		accessTTL = 5 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}

	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// IssueAccessToken signs a short-lived access token for the user.
func (i *TokenIssuer) IssueAccessToken(userID uint, role models.Role) (string, error) {
	return i.sign(userID, role, i.accessSecret, i.accessTTL)
}

// IssueRefreshToken signs a longer-lived refresh token for the user.
func (i *TokenIssuer) IssueRefreshToken(userID uint, role models.Role) (string, error) {
	return i.sign(userID, role, i.refreshSecret, i.refreshTTL)
}

// VerifyRefreshToken validates the signature and expiry of a refresh token
// and returns the user id and role it encodes.
func (i *TokenIssuer) VerifyRefreshToken(token string) (uint, models.Role, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return i.refreshSecret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, "", fmt.Errorf("invalid refresh token")
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid refresh token subject")
	}

	role := models.Role(claims.Role)
	if !role.Valid() {
		return 0, "", fmt.Errorf("invalid refresh token role")
	}

	return uint(userID), role, nil
}

func (i *TokenIssuer) sign(userID uint, role models.Role, secret []byte, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
