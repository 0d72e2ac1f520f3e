package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/videotube/backend/internal/config"
	"github.com/videotube/backend/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload of both access and refresh tokens. RegisteredClaims.ID
// carries a random jti so two tokens minted in the same second still differ.
type Claims struct {
	UserID uuid.UUID `json:"id"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	cfg *config.JWTConfig
	now func() time.Time
}

func NewTokenManager(cfg *config.JWTConfig) *TokenManager {
	return &TokenManager{cfg: cfg, now: time.Now}
}

// NewPair mints an access and a refresh token for userID.
func (m *TokenManager) NewPair(userID uuid.UUID) (*domain.TokenPair, error) {
	now := m.now()
	accessExpiresAt := now.Add(m.cfg.AccessExpiry)
	refreshExpiresAt := now.Add(m.cfg.RefreshExpiry)

	access, err := m.sign(userID, now, accessExpiresAt, m.cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := m.sign(userID, now, refreshExpiresAt, m.cfg.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExpiresAt,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

func (m *TokenManager) sign(userID uuid.UUID, issuedAt, expiresAt time.Time, secret string) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseAccess verifies an access token and returns the user id it names.
func (m *TokenManager) ParseAccess(token string) (uuid.UUID, error) {
	return m.parse(token, m.cfg.Secret)
}

// ParseRefresh verifies a refresh token and returns the user id it names.
func (m *TokenManager) ParseRefresh(token string) (uuid.UUID, error) {
	return m.parse(token, m.cfg.RefreshSecret)
}

func (m *TokenManager) parse(tokenString, secret string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, ErrInvalidToken
	}
	return claims.UserID, nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
