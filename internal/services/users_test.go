package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/crypto-dca-backend/internal/apperrors"
	"github.com/AnshRaj112/crypto-dca-backend/internal/models"
	"github.com/AnshRaj112/crypto-dca-backend/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func validTransactionInput() TransactionInput {
	return TransactionInput{
		Timestamp:       ptr(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
		Type:            models.TransactionTypeBuy,
		Coin:            "BTC",
		NumCoins:        ptr(0.25),
		Currency:        "USD",
		TotalAmountPaid: ptr(15000.0),
		Fee:             ptr(0.0),
		Exchange:        "Kraken",
	}
}

func newUserFixture(t *testing.T) (*UserService, string) {
	t.Helper()
	store := repository.NewMemoryUserStore()
	user := &models.User{Firstname: "Ada", Lastname: "Lovelace", Email: "ada@example.com"}
	require.NoError(t, store.Create(context.Background(), user))
	return NewUserService(store), user.ID.Hex()
}

func TestUserService_AppendTransaction(t *testing.T) {
	ctx := context.Background()
	s, userID := newUserFixture(t)

	first, err := s.AppendTransaction(ctx, userID, validTransactionInput())
	require.NoError(t, err)
	second, err := s.AppendTransaction(ctx, userID, validTransactionInput())
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 0.0, first.Fee, "zero fee is a valid value")
	assert.Equal(t, "", first.Notes)

	all, err := s.GetTransactions(ctx, userID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
}

func TestUserService_AppendTransaction_RegeneratesCollidingID(t *testing.T) {
	ctx := context.Background()
	s, userID := newUserFixture(t)

	ids := []string{"dup", "dup", "fresh"}
	s.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first, err := s.AppendTransaction(ctx, userID, validTransactionInput())
	require.NoError(t, err)
	second, err := s.AppendTransaction(ctx, userID, validTransactionInput())
	require.NoError(t, err)

	assert.Equal(t, "dup", first.ID)
	assert.Equal(t, "fresh", second.ID)
}

func TestUserService_AppendTransaction_Validation(t *testing.T) {
	ctx := context.Background()
	s, userID := newUserFixture(t)

	tests := []struct {
		name   string
		mutate func(in *TransactionInput)
		field  string
	}{
		{name: "missing timestamp", mutate: func(in *TransactionInput) { in.Timestamp = nil }, field: "timestamp"},
		{name: "bad type", mutate: func(in *TransactionInput) { in.Type = "hold" }, field: "type"},
		{name: "missing coin", mutate: func(in *TransactionInput) { in.Coin = "" }, field: "coin"},
		{name: "missing numCoins", mutate: func(in *TransactionInput) { in.NumCoins = nil }, field: "numCoins"},
		{name: "missing currency", mutate: func(in *TransactionInput) { in.Currency = "" }, field: "currency"},
		{name: "missing totalAmountPaid", mutate: func(in *TransactionInput) { in.TotalAmountPaid = nil }, field: "totalAmountPaid"},
		{name: "missing fee", mutate: func(in *TransactionInput) { in.Fee = nil }, field: "fee"},
		{name: "missing exchange", mutate: func(in *TransactionInput) { in.Exchange = "" }, field: "exchange"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validTransactionInput()
			tt.mutate(&in)

			_, err := s.AppendTransaction(ctx, userID, in)
			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.KindValidation, appErr.Kind)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}

	all, err := s.GetTransactions(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, all, "invalid input must not be stored")
}

func TestUserService_AppendTransaction_UnknownUser(t *testing.T) {
	s, _ := newUserFixture(t)
	_, err := s.AppendTransaction(context.Background(), "000000000000000000000000", validTransactionInput())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_ReplaceTransaction(t *testing.T) {
	ctx := context.Background()
	s, userID := newUserFixture(t)

	tx, err := s.AppendTransaction(ctx, userID, validTransactionInput())
	require.NoError(t, err)

	in := validTransactionInput()
	in.Type = models.TransactionTypeSell
	in.Coin = "ETH"
	in.NumCoins = ptr(3.0)
	in.Notes = "rebalanced"

	user, err := s.ReplaceTransaction(ctx, userID, tx.ID, in)
	require.NoError(t, err)
	require.Len(t, user.Transactions, 1)

	got, err := s.GetTransaction(ctx, userID, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, got.ID)
	assert.Equal(t, models.TransactionTypeSell, got.Type)
	assert.Equal(t, "ETH", got.Coin)
	assert.Equal(t, 3.0, got.NumCoins)
	assert.Equal(t, "rebalanced", got.Notes)

	_, err = s.ReplaceTransaction(ctx, userID, "missing", validTransactionInput())
	assert.ErrorIs(t, err, apperrors.ErrTransactionNotFound)

	bad := validTransactionInput()
	bad.Coin = ""
	_, err = s.ReplaceTransaction(ctx, userID, tx.ID, bad)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestUserService_RemoveTransaction(t *testing.T) {
	ctx := context.Background()
	s, userID := newUserFixture(t)

	tx, err := s.AppendTransaction(ctx, userID, validTransactionInput())
	require.NoError(t, err)

	require.NoError(t, s.RemoveTransaction(ctx, userID, tx.ID))
	_, err = s.GetTransaction(ctx, userID, tx.ID)
	assert.ErrorIs(t, err, apperrors.ErrTransactionNotFound)

	assert.NoError(t, s.RemoveTransaction(ctx, userID, tx.ID))
	assert.ErrorIs(t, s.RemoveTransaction(ctx, "000000000000000000000000", tx.ID), apperrors.ErrUserNotFound)
}

func TestUserService_WatchPairs(t *testing.T) {
	ctx := context.Background()
	s, userID := newUserFixture(t)

	pairs, err := s.GetWatchPairs(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{}, pairs)

	want := []string{"ETH/USD", "BTC/EUR", "ADA/USD"}
	got, err := s.SetWatchPairs(ctx, userID, want)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	pairs, err = s.GetWatchPairs(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, want, pairs)

	got, err = s.SetWatchPairs(ctx, userID, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	s, userID := newUserFixture(t)

	settings := map[string]interface{}{"currency": "EUR"}
	user, err := s.UpdateProfile(ctx, userID, ProfileUpdate{
		Lastname: ptr("  Byron "),
		Settings: &settings,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Firstname)
	assert.Equal(t, "Byron", user.Lastname)
	assert.Equal(t, "EUR", user.Settings["currency"])

	user, err = s.UpdateProfile(ctx, userID, ProfileUpdate{Email: ptr(" New@Example.com")})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)

	_, err = s.UpdateProfile(ctx, userID, ProfileUpdate{Firstname: ptr(" ")})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = s.UpdateProfile(ctx, userID, ProfileUpdate{Email: ptr("nope")})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = s.UpdateProfile(ctx, "000000000000000000000000", ProfileUpdate{})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
