package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/crypto-dca-backend/internal/apperrors"
	"github.com/AnshRaj112/crypto-dca-backend/internal/models"
	"github.com/AnshRaj112/crypto-dca-backend/internal/repository"
)

// ProfileUpdate holds the profile fields a client may change. Nil means
// "leave as is".
type ProfileUpdate struct {
	Firstname *string                 `json:"firstname"`
	Lastname  *string                 `json:"lastname"`
	Email     *string                 `json:"email"`
	Settings  *map[string]interface{} `json:"settings"`
}

// TransactionInput is the client-supplied part of a transaction. Numeric
// fields are pointers so a missing value can be told apart from zero.
type TransactionInput struct {
	Timestamp       *time.Time `json:"timestamp" validate:"required"`
	Type            string     `json:"type" validate:"required,oneof=buy sell"`
	Coin            string     `json:"coin" validate:"required"`
	NumCoins        *float64   `json:"numCoins" validate:"required"`
	Currency        string     `json:"currency" validate:"required"`
	TotalAmountPaid *float64   `json:"totalAmountPaid" validate:"required"`
	Fee             *float64   `json:"fee" validate:"required"`
	Notes           string     `json:"notes"`
	Exchange        string     `json:"exchange" validate:"required"`
}

func (in TransactionInput) toTransaction(id string) models.Transaction {
	return models.Transaction{
		ID:              id,
		Timestamp:       in.Timestamp.UTC(),
		Type:            in.Type,
		Coin:            in.Coin,
		NumCoins:        *in.NumCoins,
		Currency:        in.Currency,
		TotalAmountPaid: *in.TotalAmountPaid,
		Fee:             *in.Fee,
		Notes:           in.Notes,
		Exchange:        in.Exchange,
	}
}

// UserService reads and mutates a user's profile, watch pairs and embedded
// transactions.
type UserService struct {
	users repository.UserStore
	newID func() string
}

func NewUserService(users repository.UserStore) *UserService {
	return &UserService{users: users, newID: uuid.NewString}
}

func (s *UserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile writes only the supplied fields and returns the updated user.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*models.User, error) {
	update := repository.UserUpdate{
		Settings:  in.Settings,
		UpdatedAt: time.Now().UTC(),
	}

	if in.Firstname != nil {
		v := strings.TrimSpace(*in.Firstname)
		if v == "" {
			return nil, apperrors.Validation("firstname", "First name is required")
		}
		update.Firstname = &v
	}
	if in.Lastname != nil {
		v := strings.TrimSpace(*in.Lastname)
		if v == "" {
			return nil, apperrors.Validation("lastname", "Last name is required")
		}
		update.Lastname = &v
	}
	if in.Email != nil {
		v := normalizeEmail(*in.Email)
		if !isEmail(v) {
			return nil, apperrors.Validation("email", "Invalid email address")
		}
		update.Email = &v
	}

	return s.users.Update(ctx, userID, update)
}

func (s *UserService) GetWatchPairs(ctx context.Context, userID string) ([]string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.WatchPairs, nil
}

// SetWatchPairs replaces the whole list and returns it.
func (s *UserService) SetWatchPairs(ctx context.Context, userID string, pairs []string) ([]string, error) {
	if pairs == nil {
		pairs = []string{}
	}
	if err := s.users.SetWatchPairs(ctx, userID, pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

// AppendTransaction validates in, assigns a fresh id and appends it.
func (s *UserService) AppendTransaction(ctx context.Context, userID string, in TransactionInput) (models.Transaction, error) {
	if err := validateStruct(in); err != nil {
		return models.Transaction{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return models.Transaction{}, err
	}

	id := s.newID()
	for user.FindTransaction(id) >= 0 {
		id = s.newID()
	}

	tx := in.toTransaction(id)
	if err := s.users.PushTransaction(ctx, userID, tx); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

func (s *UserService) GetTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Transactions, nil
}

func (s *UserService) GetTransaction(ctx context.Context, userID, transactionID string) (models.Transaction, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return models.Transaction{}, err
	}
	i := user.FindTransaction(transactionID)
	if i < 0 {
		return models.Transaction{}, apperrors.ErrTransactionNotFound
	}
	return user.Transactions[i], nil
}

// ReplaceTransaction overwrites every field of the transaction except its id.
func (s *UserService) ReplaceTransaction(ctx context.Context, userID, transactionID string, in TransactionInput) (*models.User, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	return s.users.ReplaceTransaction(ctx, userID, in.toTransaction(transactionID))
}

// RemoveTransaction deletes the transaction if present. Removing an unknown
// transaction id succeeds.
func (s *UserService) RemoveTransaction(ctx context.Context, userID, transactionID string) error {
	return s.users.PullTransaction(ctx, userID, transactionID)
}
