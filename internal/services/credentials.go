package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AnshRaj112/crypto-dca-backend/internal/apperrors"
	"github.com/AnshRaj112/crypto-dca-backend/internal/logger"
	"github.com/AnshRaj112/crypto-dca-backend/internal/models"
	"github.com/AnshRaj112/crypto-dca-backend/internal/repository"
	"github.com/AnshRaj112/crypto-dca-backend/pkg/utils"
)

const MinPasswordLength = 8

type SignUpInput struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// CredentialService creates users and checks their passwords.
type CredentialService struct {
	users repository.UserStore
	hash  func(string) (string, error)
}

func NewCredentialService(users repository.UserStore) *CredentialService {
	return &CredentialService{users: users, hash: utils.HashPassword}
}

// CreateUser validates the input, hashes the password and stores a new user.
// It returns the new user's id.
func (s *CredentialService) CreateUser(ctx context.Context, in SignUpInput) (string, error) {
	firstname := strings.TrimSpace(in.Firstname)
	lastname := strings.TrimSpace(in.Lastname)
	email := normalizeEmail(in.Email)

	if firstname == "" {
		return "", apperrors.Validation("firstname", "First name is required")
	}
	if lastname == "" {
		return "", apperrors.Validation("lastname", "Last name is required")
	}
	if !isEmail(email) {
		return "", apperrors.Validation("email", "Invalid email address")
	}
	if len(in.Password) < MinPasswordLength {
		return "", apperrors.Validation("password", fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}

	hashed, err := s.hash(in.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		CreatedAt:      now,
		UpdatedAt:      now,
		Firstname:      firstname,
		Lastname:       lastname,
		Email:          email,
		HashedPassword: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}

	logger.Log.Infow("user created", "userId", user.ID.Hex())
	return user.ID.Hex(), nil
}

// VerifyCredentials returns the id of the user owning email/password. Every
// failure yields apperrors.ErrInvalidCredentials so callers cannot probe which
// part was wrong.
func (s *CredentialService) VerifyCredentials(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if !isEmail(email) || len(password) < MinPasswordLength {
		return "", apperrors.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return "", apperrors.ErrInvalidCredentials
		}
		return "", err
	}

	ok, err := utils.VerifyPassword(password, user.HashedPassword)
	if err != nil {
		logger.Log.Warnw("stored password hash could not be verified", "userId", user.ID.Hex(), "err", err)
		return "", apperrors.ErrInvalidCredentials
	}
	if !ok {
		return "", apperrors.ErrInvalidCredentials
	}
	return user.ID.Hex(), nil
}
