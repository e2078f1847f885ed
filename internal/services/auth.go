package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/AnshRaj112/crypto-dca-backend/internal/apperrors"
	"github.com/AnshRaj112/crypto-dca-backend/internal/logger"
	"github.com/AnshRaj112/crypto-dca-backend/internal/repository"
)

// AuthService implements the sign-up, login, logout, refresh and forgotten
// password flows on top of the credential and token services.
type AuthService struct {
	credentials *CredentialService
	tokens      *TokenService
	users       repository.UserStore
	mailer      Mailer
	resetURL    string
}

func NewAuthService(credentials *CredentialService, tokens *TokenService, users repository.UserStore, mailer Mailer, resetURL string) *AuthService {
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &AuthService{
		credentials: credentials,
		tokens:      tokens,
		users:       users,
		mailer:      mailer,
		resetURL:    resetURL,
	}
}

func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (TokenPair, error) {
	userID, err := s.credentials.CreateUser(ctx, in)
	if err != nil {
		return TokenPair{}, err
	}
	return s.tokens.IssueTokenPair(ctx, userID)
}

func (s *AuthService) LogIn(ctx context.Context, email, password string) (TokenPair, error) {
	userID, err := s.credentials.VerifyCredentials(ctx, email, password)
	if err != nil {
		return TokenPair{}, err
	}
	return s.tokens.IssueTokenPair(ctx, userID)
}

// LogOut revokes the refresh token. Unknown tokens yield
// apperrors.ErrInvalidRefreshToken.
func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	err := s.tokens.RevokeRefreshToken(ctx, refreshToken)
	if errors.Is(err, apperrors.ErrRefreshTokenNotFound) {
		return apperrors.ErrInvalidRefreshToken
	}
	return err
}

// Refresh returns a new access token. Unknown and malformed tokens are both
// reported as apperrors.ErrInvalidRefreshToken; expired ones as
// apperrors.ErrRefreshTokenExpired.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	access, err := s.tokens.RotateAccessToken(ctx, refreshToken)
	switch {
	case errors.Is(err, apperrors.ErrRefreshTokenNotFound), errors.Is(err, apperrors.ErrInvalidToken):
		return "", apperrors.ErrInvalidRefreshToken
	case err != nil:
		return "", err
	}
	return access, nil
}

// ForgotPassword mails a reset link when email belongs to a user. An unknown
// address is not an error so the outcome never reveals whether an account
// exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, apperrors.ErrUserNotFound) {
		logger.Log.Debugw("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	token, err := s.tokens.IssueResetPasswordToken(user.ID.Hex())
	if err != nil {
		return err
	}

	link := s.resetURL + "?token=" + url.QueryEscape(token)
	err = s.mailer.Send(ctx, user.Email, "Reset password", []string{
		fmt.Sprintf("Hi %s,", user.Firstname),
		"We received a request to reset your password.",
		"Please click the link below to reset your password.",
		link,
		"If you did not request to reset your password, please ignore this email.",
	})
	if err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}
