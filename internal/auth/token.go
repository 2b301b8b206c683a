package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type tokenType string

const (
	accessTokenType  tokenType = "access"
	refreshTokenType tokenType = "refresh"
)

var (
	ErrTokenExpired      = errors.New("token has expired")
	ErrTokenInvalid      = errors.New("token is invalid")
	ErrTokenTypeMismatch = errors.New("wrong token type")
)

const issuer = "medi-assist"

type claims struct {
	jwt.RegisteredClaims
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	Department     string    `json:"department,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Specialization string    `json:"specialization,omitempty"`
	TokenType      tokenType `json:"typ"`
}

func (c *claims) user() *User {
	return &User{
		ID:             c.Subject,
		Email:          c.Email,
		Name:           c.Name,
		Role:           c.Role,
		Department:     c.Department,
		Phone:          c.Phone,
		Specialization: c.Specialization,
	}
}

// TokenManager signs and checks HS256 tokens carrying the signed-in user.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *TokenManager) Issue(u User) (Tokens, error) {
	access, err := m.sign(u, accessTokenType, m.accessTTL)
	if err != nil {
		return Tokens{}, fmt.Errorf("generating access token: %w", err)
	}

	refresh, err := m.sign(u, refreshTokenType, m.refreshTTL)
	if err != nil {
		return Tokens{}, fmt.Errorf("generating refresh token: %w", err)
	}

	return Tokens{Token: access, RefreshToken: refresh}, nil
}

// ValidateAccessToken returns the user an access token was issued for.
func (m *TokenManager) ValidateAccessToken(token string) (*User, error) {
	return m.validate(token, accessTokenType)
}

func (m *TokenManager) ValidateRefreshToken(token string) (*User, error) {
	return m.validate(token, refreshTokenType)
}

func (m *TokenManager) sign(u User, typ tokenType, ttl time.Duration) (string, error) {
	now := m.now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
		Department:     u.Department,
		Phone:          u.Phone,
		Specialization: u.Specialization,
		TokenType:      typ,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

func (m *TokenManager) validate(raw string, expected tokenType) (*User, error) {
	token, err := jwt.ParseWithClaims(
		raw,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secret, nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if c.TokenType != expected {
		return nil, ErrTokenTypeMismatch
	}

	return c.user(), nil
}
