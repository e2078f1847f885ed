package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/crypto-dca-backend/internal/apperrors"
	"github.com/AnshRaj112/crypto-dca-backend/internal/models"
)

func newTestUser(email string) *models.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.User{
		CreatedAt:      now,
		UpdatedAt:      now,
		Firstname:      "Ada",
		Lastname:       "Lovelace",
		Email:          email,
		HashedPassword: "hash",
	}
}

func newTestTransaction(coin string) models.Transaction {
	return models.Transaction{
		ID:              uuid.NewString(),
		Timestamp:       time.Now().UTC().Truncate(time.Millisecond),
		Type:            models.TransactionTypeBuy,
		Coin:            coin,
		NumCoins:        0.5,
		Currency:        "USD",
		TotalAmountPaid: 100,
		Fee:             1,
	}
}

func runUserStoreContract(t *testing.T, store UserStore) {
	ctx := context.Background()

	t.Run("create and find", func(t *testing.T) {
		u := newTestUser("find@example.com")
		require.NoError(t, store.Create(ctx, u))
		require.False(t, u.ID.IsZero())

		byID, err := store.FindByID(ctx, u.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, "find@example.com", byID.Email)
		assert.Empty(t, byID.WatchPairs)
		assert.NotNil(t, byID.Transactions)

		byEmail, err := store.FindByEmail(ctx, "find@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		require.NoError(t, store.Create(ctx, newTestUser("dup@example.com")))
		err := store.Create(ctx, newTestUser("dup@example.com"))
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := store.FindByID(ctx, "000000000000000000000000")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		_, err = store.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		err = store.SetWatchPairs(ctx, "000000000000000000000000", []string{"BTC/USD"})
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("update profile", func(t *testing.T) {
		u := newTestUser("update@example.com")
		require.NoError(t, store.Create(ctx, u))

		first := "Grace"
		settings := map[string]interface{}{"theme": "dark"}
		updated, err := store.Update(ctx, u.ID.Hex(), UserUpdate{
			Firstname: &first,
			Settings:  &settings,
			UpdatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.Equal(t, "Grace", updated.Firstname)
		assert.Equal(t, "Lovelace", updated.Lastname)
		assert.Equal(t, "dark", updated.Settings["theme"])

		require.NoError(t, store.Create(ctx, newTestUser("taken@example.com")))
		taken := "taken@example.com"
		_, err = store.Update(ctx, u.ID.Hex(), UserUpdate{Email: &taken, UpdatedAt: time.Now().UTC()})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
	})

	t.Run("watch pairs", func(t *testing.T) {
		u := newTestUser("pairs@example.com")
		require.NoError(t, store.Create(ctx, u))

		require.NoError(t, store.SetWatchPairs(ctx, u.ID.Hex(), []string{"BTC/USD", "ETH/USD"}))
		got, err := store.FindByID(ctx, u.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, []string{"BTC/USD", "ETH/USD"}, got.WatchPairs)

		require.NoError(t, store.SetWatchPairs(ctx, u.ID.Hex(), nil))
		got, err = store.FindByID(ctx, u.ID.Hex())
		require.NoError(t, err)
		assert.Empty(t, got.WatchPairs)
	})

	t.Run("transactions", func(t *testing.T) {
		u := newTestUser("tx@example.com")
		require.NoError(t, store.Create(ctx, u))
		id := u.ID.Hex()

		btc := newTestTransaction("BTC")
		eth := newTestTransaction("ETH")
		require.NoError(t, store.PushTransaction(ctx, id, btc))
		require.NoError(t, store.PushTransaction(ctx, id, eth))

		edited := btc
		edited.NumCoins = 2
		edited.Notes = "edited"
		updated, err := store.ReplaceTransaction(ctx, id, edited)
		require.NoError(t, err)
		require.Len(t, updated.Transactions, 2)
		assert.Equal(t, "edited", updated.Transactions[0].Notes)
		assert.Equal(t, eth.ID, updated.Transactions[1].ID)

		missing := newTestTransaction("SOL")
		_, err = store.ReplaceTransaction(ctx, id, missing)
		assert.ErrorIs(t, err, apperrors.ErrTransactionNotFound)
		_, err = store.ReplaceTransaction(ctx, "000000000000000000000000", missing)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

		require.NoError(t, store.PullTransaction(ctx, id, btc.ID))
		require.NoError(t, store.PullTransaction(ctx, id, btc.ID), "removing twice is not an error")

		got, err := store.FindByID(ctx, id)
		require.NoError(t, err)
		require.Len(t, got.Transactions, 1)
		assert.Equal(t, eth.ID, got.Transactions[0].ID)
	})

	t.Run("concurrent appends are not lost", func(t *testing.T) {
		u := newTestUser("concurrent@example.com")
		require.NoError(t, store.Create(ctx, u))

		const n = 20
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, store.PushTransaction(ctx, u.ID.Hex(), newTestTransaction("BTC")))
			}()
		}
		wg.Wait()

		got, err := store.FindByID(ctx, u.ID.Hex())
		require.NoError(t, err)
		assert.Len(t, got.Transactions, n)
	})
}

func runRefreshTokenStoreContract(t *testing.T, store RefreshTokenStore) {
	ctx := context.Background()

	t.Run("save exists delete", func(t *testing.T) {
		token := models.RefreshToken{
			UserID:    "user-1",
			Token:     uuid.NewString(),
			CreatedAt: time.Now().UTC(),
			ExpiresAt: time.Now().UTC().Add(time.Hour),
		}
		require.NoError(t, store.Save(ctx, token))

		ok, err := store.Exists(ctx, token.Token)
		require.NoError(t, err)
		assert.True(t, ok)

		deleted, err := store.Delete(ctx, token.Token)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = store.Delete(ctx, token.Token)
		require.NoError(t, err)
		assert.False(t, deleted)

		ok, err = store.Exists(ctx, token.Token)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired token is retained", func(t *testing.T) {
		token := models.RefreshToken{
			UserID:    "user-3",
			Token:     uuid.NewString(),
			CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
			ExpiresAt: time.Now().UTC().Add(-time.Minute),
		}
		require.NoError(t, store.Save(ctx, token))

		ok, err := store.Exists(ctx, token.Token)
		require.NoError(t, err)
		assert.True(t, ok)

		deleted, err := store.Delete(ctx, token.Token)
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("concurrent delete succeeds once", func(t *testing.T) {
		token := models.RefreshToken{
			UserID:    "user-2",
			Token:     uuid.NewString(),
			CreatedAt: time.Now().UTC(),
			ExpiresAt: time.Now().UTC().Add(time.Hour),
		}
		require.NoError(t, store.Save(ctx, token))

		const n = 10
		results := make(chan bool, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				deleted, err := store.Delete(ctx, token.Token)
				assert.NoError(t, err)
				results <- deleted
			}()
		}
		wg.Wait()
		close(results)

		wins := 0
		for deleted := range results {
			if deleted {
				wins++
			}
		}
		assert.Equal(t, 1, wins)
	})
}
