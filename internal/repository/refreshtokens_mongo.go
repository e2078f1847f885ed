package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/crypto-dca-backend/internal/models"
)

const RefreshTokensCollection = "refreshtokens"

type MongoRefreshTokenStore struct {
	db CollectionProvider
}

func NewMongoRefreshTokenStore(db CollectionProvider) *MongoRefreshTokenStore {
	return &MongoRefreshTokenStore{db: db}
}

// EnsureIndexes creates a unique index on the token and a TTL index so MongoDB
// purges tokens RefreshTokenRetention after they expire.
func (s *MongoRefreshTokenStore) EnsureIndexes(ctx context.Context) error {
	col, err := s.db.Collection(RefreshTokensCollection)
	if err != nil {
		return err
	}
	_, err = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "refreshToken", Value: 1}},
			Options: options.Index().SetName("idx_refresh_token_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetName("idx_refresh_token_ttl").SetExpireAfterSeconds(int32(RefreshTokenRetention / time.Second)),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("idx_refresh_token_user"),
		},
	})
	return err
}

func (s *MongoRefreshTokenStore) Save(ctx context.Context, token models.RefreshToken) error {
	col, err := s.db.Collection(RefreshTokensCollection)
	if err != nil {
		return err
	}
	_, err = col.InsertOne(ctx, token)
	return err
}

func (s *MongoRefreshTokenStore) Exists(ctx context.Context, token string) (bool, error) {
	col, err := s.db.Collection(RefreshTokensCollection)
	if err != nil {
		return false, err
	}
	n, err := col.CountDocuments(ctx, bson.M{"refreshToken": token}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *MongoRefreshTokenStore) Delete(ctx context.Context, token string) (bool, error) {
	col, err := s.db.Collection(RefreshTokensCollection)
	if err != nil {
		return false, err
	}
	res, err := col.DeleteOne(ctx, bson.M{"refreshToken": token})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
