package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/AnshRaj112/crypto-dca-backend/internal/apperrors"
	"github.com/AnshRaj112/crypto-dca-backend/internal/logger"
	"github.com/AnshRaj112/crypto-dca-backend/internal/models"
	"github.com/AnshRaj112/crypto-dca-backend/internal/repository"
)

type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	ResetSecret   string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	ResetTTL      time.Duration
}

type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenService issues HS256 access/refresh tokens and tracks refresh tokens
// in a RefreshTokenStore so they can be revoked.
type TokenService struct {
	cfg   TokenConfig
	store repository.RefreshTokenStore
	now   func() time.Time
}

func NewTokenService(cfg TokenConfig, store repository.RefreshTokenStore) *TokenService {
	return &TokenService{cfg: cfg, store: store, now: time.Now}
}

// IssueTokenPair signs a new access and refresh token for userID and records
// the refresh token.
func (s *TokenService) IssueTokenPair(ctx context.Context, userID string) (TokenPair, error) {
	now := s.now()

	access, err := s.sign(userID, s.cfg.AccessSecret, now, s.cfg.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(userID, s.cfg.RefreshSecret, now, s.cfg.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	err = s.store.Save(ctx, models.RefreshToken{
		UserID:    userID,
		Token:     refresh,
		CreatedAt: now.UTC(),
		ExpiresAt: now.Add(s.cfg.RefreshTTL).UTC(),
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("save refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccessToken returns the user id carried by a valid access token.
func (s *TokenService) VerifyAccessToken(token string) (string, error) {
	claims, err := s.parse(token, s.cfg.AccessSecret)
	if err != nil {
		return "", apperrors.ErrInvalidToken
	}
	return claims.UserID, nil
}

// RotateAccessToken mints a new access token from a stored, unexpired refresh
// token. The refresh token itself stays valid.
func (s *TokenService) RotateAccessToken(ctx context.Context, refreshToken string) (string, error) {
	ok, err := s.store.Exists(ctx, refreshToken)
	if err != nil {
		return "", fmt.Errorf("lookup refresh token: %w", err)
	}
	if !ok {
		return "", apperrors.ErrRefreshTokenNotFound
	}

	claims, err := s.parse(refreshToken, s.cfg.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.ErrRefreshTokenExpired
		}
		logger.Log.Debugw("refresh token rejected", "err", err)
		return "", apperrors.ErrInvalidToken
	}

	return s.sign(claims.UserID, s.cfg.AccessSecret, s.now(), s.cfg.AccessTTL)
}

// RevokeRefreshToken deletes the stored refresh token. Only one of several
// concurrent revocations of the same token succeeds.
func (s *TokenService) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	deleted, err := s.store.Delete(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	if !deleted {
		return apperrors.ErrRefreshTokenNotFound
	}
	return nil
}

// IssueResetPasswordToken signs a short-lived token for the password reset link.
func (s *TokenService) IssueResetPasswordToken(userID string) (string, error) {
	return s.sign(userID, s.cfg.ResetSecret, s.now(), s.cfg.ResetTTL)
}

func (s *TokenService) sign(userID, secret string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) parse(token, secret string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
