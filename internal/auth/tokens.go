// Package auth issues and verifies the JWTs used for API access and password
// resets, and resolves a bearer token to the calling user.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dwight/internal/config"
	"dwight/internal/models"
)

// Token audiences. A token minted for one purpose is rejected for the other.
const (
	AccessAudience = "dwight:auth"
	ResetAudience  = "dwight:reset"

	issuer = "dwight-api"
)

// ErrInvalidToken covers malformed, expired, mis-signed and wrong-audience tokens.
var ErrInvalidToken = errors.New("invalid token")

// ResetClaims are carried by a password reset token. The fingerprint ties the
// token to the password hash it was issued against.
type ResetClaims struct {
	PasswordFingerprint string `json:"password_fgpt"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens.
type TokenManager struct {
	secret         []byte
	accessLifetime time.Duration
	resetLifetime  time.Duration
	now            func() time.Time
}

// NewTokenManager creates a TokenManager from the JWT settings.
func NewTokenManager(cfg config.JWT) *TokenManager {
	return &TokenManager{
		secret:         []byte(cfg.Secret),
		accessLifetime: cfg.Lifetime,
		resetLifetime:  cfg.ResetTokenLifetime,
		now:            time.Now,
	}
}

// IssueAccessToken mints a bearer token whose subject is the user id.
func (m *TokenManager) IssueAccessToken(user *models.User) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		Audience:  jwt.ClaimStrings{AccessAudience},
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.accessLifetime)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseAccessToken verifies an access token and returns its subject.
func (m *TokenManager) ParseAccessToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if err := m.parse(tokenString, claims, AccessAudience); err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// IssueResetToken mints a password reset token bound to the user's current
// password hash.
func (m *TokenManager) IssueResetToken(user *models.User) (string, error) {
	now := m.now()
	claims := &ResetClaims{
		PasswordFingerprint: FingerprintPassword(user.HashedPassword),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Audience:  jwt.ClaimStrings{ResetAudience},
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.resetLifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseResetToken verifies a reset token and returns its claims. Callers
// must still compare the fingerprint against the stored password hash.
func (m *TokenManager) ParseResetToken(tokenString string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := m.parse(tokenString, claims, ResetAudience); err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.PasswordFingerprint == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *TokenManager) parse(tokenString string, claims jwt.Claims, audience string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithAudience(audience),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// FingerprintPassword returns the SHA-256 hex digest of a password hash.
func FingerprintPassword(hashedPassword string) string {
	h := sha256.Sum256([]byte(hashedPassword))
	return hex.EncodeToString(h[:])
}
