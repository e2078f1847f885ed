package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/crypto-dca-backend/internal/apperrors"
	"github.com/AnshRaj112/crypto-dca-backend/internal/models"
)

// MemoryUserStore is a mutex-guarded UserStore. Every read returns a copy so
// callers cannot mutate stored state.
type MemoryUserStore struct {
	mu      sync.RWMutex
	users   map[string]*models.User
	byEmail map[string]string
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return apperrors.ErrDuplicateEmail
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Normalize()

	stored := cloneUser(user)
	s.users[user.ID.Hex()] = stored
	s.byEmail[stored.Email] = user.ID.Hex()
	return nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return cloneUser(s.users[id]), nil
}

func (s *MemoryUserStore) Update(_ context.Context, userID string, update UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}

	if update.Email != nil && *update.Email != u.Email {
		if _, taken := s.byEmail[*update.Email]; taken {
			return nil, apperrors.ErrDuplicateEmail
		}
		delete(s.byEmail, u.Email)
		u.Email = *update.Email
		s.byEmail[u.Email] = userID
	}
	if update.Firstname != nil {
		u.Firstname = *update.Firstname
	}
	if update.Lastname != nil {
		u.Lastname = *update.Lastname
	}
	if update.Settings != nil {
		u.Settings = cloneSettings(*update.Settings)
	}
	u.UpdatedAt = update.UpdatedAt
	return cloneUser(u), nil
}

func (s *MemoryUserStore) SetWatchPairs(_ context.Context, userID string, pairs []string) error {
	return s.mutate(userID, func(u *models.User) error {
		u.WatchPairs = append([]string{}, pairs...)
		return nil
	})
}

func (s *MemoryUserStore) PushTransaction(_ context.Context, userID string, tx models.Transaction) error {
	return s.mutate(userID, func(u *models.User) error {
		u.Transactions = append(u.Transactions, tx)
		return nil
	})
}

func (s *MemoryUserStore) ReplaceTransaction(_ context.Context, userID string, tx models.Transaction) (*models.User, error) {
	var out *models.User
	err := s.mutate(userID, func(u *models.User) error {
		i := u.FindTransaction(tx.ID)
		if i < 0 {
			return apperrors.ErrTransactionNotFound
		}
		u.Transactions[i] = tx
		u.UpdatedAt = time.Now().UTC()
		out = cloneUser(u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MemoryUserStore) PullTransaction(_ context.Context, userID, transactionID string) error {
	return s.mutate(userID, func(u *models.User) error {
		kept := u.Transactions[:0]
		for _, tx := range u.Transactions {
			if tx.ID != transactionID {
				kept = append(kept, tx)
			}
		}
		u.Transactions = kept
		return nil
	})
}

func (s *MemoryUserStore) mutate(userID string, fn func(u *models.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	if err := fn(u); err != nil {
		return err
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.WatchPairs = append([]string{}, u.WatchPairs...)
	c.Transactions = append([]models.Transaction{}, u.Transactions...)
	c.Settings = cloneSettings(u.Settings)
	return &c
}

func cloneSettings(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// MemoryRefreshTokenStore is a mutex-guarded RefreshTokenStore. Tokens are
// treated as absent once RefreshTokenRetention has passed since they expired.
type MemoryRefreshTokenStore struct {
	mu     sync.Mutex
	tokens map[string]models.RefreshToken
	now    func() time.Time
}

func NewMemoryRefreshTokenStore() *MemoryRefreshTokenStore {
	return NewMemoryRefreshTokenStoreWithClock(time.Now)
}

// NewMemoryRefreshTokenStoreWithClock returns a store that reads the time
// from now.
func NewMemoryRefreshTokenStoreWithClock(now func() time.Time) *MemoryRefreshTokenStore {
	return &MemoryRefreshTokenStore{
		tokens: make(map[string]models.RefreshToken),
		now:    now,
	}
}

func (s *MemoryRefreshTokenStore) Save(_ context.Context, token models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Token] = token
	return nil
}

func (s *MemoryRefreshTokenStore) Exists(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.live(token)
	return ok, nil
}

func (s *MemoryRefreshTokenStore) Delete(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.live(token)
	delete(s.tokens, token)
	return ok, nil
}

func (s *MemoryRefreshTokenStore) live(token string) (models.RefreshToken, bool) {
	rt, ok := s.tokens[token]
	if !ok {
		return rt, false
	}
	if !rt.ExpiresAt.IsZero() && !s.now().Before(rt.ExpiresAt.Add(RefreshTokenRetention)) {
		delete(s.tokens, token)
		return rt, false
	}
	return rt, true
}
