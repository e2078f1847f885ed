package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/crypto-dca-backend/internal/logger"
)

const (
	connectTimeout         = 30 * time.Second
	serverSelectionTimeout = 10 * time.Second
	pingTimeout            = 10 * time.Second
	maxReconnectElapsed    = 2 * time.Minute
)

var ErrNotConnected = errors.New("mongodb: not connected")

// Mongo owns the process-wide MongoDB client. Callers always go through
// Database so a reconnect performed by Supervise is picked up transparently.
type Mongo struct {
	uri    string
	dbName string

	mu     sync.RWMutex
	client *mongo.Client

	// OnReconnectFailure is called when Supervise gives up on a reconnect attempt.
	OnReconnectFailure func(error)
}

func NewMongo(uri, dbName string) *Mongo {
	return &Mongo{uri: uri, dbName: dbName}
}

// Connect dials MongoDB, retrying with exponential backoff until ctx is done.
func (m *Mongo) Connect(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxReconnectElapsed

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		client, err := dial(ctx, m.uri)
		if err != nil {
			logger.Log.Warnw("mongodb connection attempt failed", "attempt", attempt, "err", err)
			return err
		}
		m.swap(client)
		logger.Log.Infow("connected to mongodb", "database", m.dbName, "attempt", attempt)
		return nil
	}, backoff.WithContext(b, ctx))
}

func dial(ctx context.Context, uri string) (*mongo.Client, error) {
	connCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	clientOptions.SetServerSelectionTimeout(serverSelectionTimeout)

	client, err := mongo.Connect(connCtx, clientOptions)
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, pingTimeout)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

func (m *Mongo) swap(client *mongo.Client) {
	m.mu.Lock()
	old := m.client
	m.client = client
	m.mu.Unlock()

	if old != nil {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		_ = old.Disconnect(ctx)
	}
}

// Database returns the configured database on the current client.
func (m *Mongo) Database() (*mongo.Database, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.client == nil {
		return nil, ErrNotConnected
	}
	return m.client.Database(m.dbName), nil
}

// Collection is a shortcut for Database().Collection(name).
func (m *Mongo) Collection(name string) (*mongo.Collection, error) {
	db, err := m.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// Ping checks the current client.
func (m *Mongo) Ping(ctx context.Context) error {
	m.mu.RLock()
	client := m.client
	m.mu.RUnlock()
	if client == nil {
		return ErrNotConnected
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return client.Ping(pingCtx, nil)
}

// Supervise pings MongoDB every interval and reconnects when the ping fails.
// It blocks until ctx is cancelled.
func (m *Mongo) Supervise(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := m.Ping(ctx)
			if err == nil || ctx.Err() != nil {
				continue
			}
			logger.Log.Warnw("mongodb disconnected, reconnecting", "err", err)

			if err := m.Connect(ctx); err != nil && ctx.Err() == nil {
				logger.Log.Errorw("mongodb reconnect failed", "err", err)
				if m.OnReconnectFailure != nil {
					m.OnReconnectFailure(fmt.Errorf("mongodb reconnect: %w", err))
				}
			}
		}
	}
}

func (m *Mongo) Disconnect() error {
	m.mu.Lock()
	client := m.client
	m.client = nil
	m.mu.Unlock()

	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}
