package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/task-tracker/domain/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenConfig holds session token settings.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// SessionClaims identifies the sign-in a token was issued for.
type SessionClaims struct {
	Username  string `json:"username"`
	LoginTime int64  `json:"login_time"`
	jwt.RegisteredClaims
}

// User returns the user the token was issued to.
func (c *SessionClaims) User() user.User {
	return user.User{Username: c.Username, LoginTime: time.Unix(0, c.LoginTime).UTC()}
}

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	config TokenConfig
}

// NewTokenManager creates a TokenManager.
func NewTokenManager(config TokenConfig) *TokenManager {
	if config.TTL <= 0 {
		config.TTL = 24 * time.Hour
	}
	if config.Secret == "" {
		config.Secret = uuid.NewString()
	}
	if config.Issuer == "" {
		config.Issuer = "task-tracker"
	}
	return &TokenManager{config: config}
}

// Issue returns a signed token for u and its expiry.
func (m *TokenManager) Issue(u user.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.config.TTL)
	claims := SessionClaims{
		Username:  u.Username,
		LoginTime: u.LoginTime.UnixNano(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.config.Issuer,
			Subject:   u.Username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies tokenString and returns its claims.
func (m *TokenManager) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, user.ErrInvalidToken
		}
		return []byte(m.config.Secret), nil
	}, jwt.WithIssuer(m.config.Issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token has expired", user.ErrInvalidToken)
		}
		return nil, user.ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, user.ErrInvalidToken
	}
	return claims, nil
}
