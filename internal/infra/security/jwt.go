package security

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/arklim/cinema-booking/internal/core/domain"
)

var (
	// ErrInvalidToken indicates the token failed signature or structural validation.
	ErrInvalidToken = errors.New("invalid access token")
	// ErrExpiredToken indicates the token is structurally valid but expired.
	ErrExpiredToken = errors.New("access token expired")
)

// AccessTokenClaims augments registered claims with the caller's role and
// account state. The core treats the decoded claims as the trusted principal.
type AccessTokenClaims struct {
	Role   string `json:"role"`
	Active bool   `json:"active"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies HS256 access tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTManager constructs a manager from the shared signing secret.
func NewJWTManager(secret string, ttl time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl}, nil
}

// Sign issues an access token for the given user.
func (m *JWTManager) Sign(user domain.User) (string, error) {
	now := time.Now().UTC()
	claims := &AccessTokenClaims{
		Role:   string(user.Role),
		Active: user.Active,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the principal it encodes.
func (m *JWTManager) Verify(tokenString string) (domain.Principal, error) {
	var claims AccessTokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Principal{}, ErrExpiredToken
		}
		return domain.Principal{}, ErrInvalidToken
	}
	if !token.Valid {
		return domain.Principal{}, ErrInvalidToken
	}

	role := domain.Role(claims.Role)
	if !role.Valid() || claims.Subject == "" {
		return domain.Principal{}, ErrInvalidToken
	}

	return domain.Principal{
		UserID: claims.Subject,
		Role:   role,
		Active: claims.Active,
	}, nil
}
