package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/crypto-dca-backend/internal/apperrors"
	"github.com/AnshRaj112/crypto-dca-backend/internal/models"
)

const UsersCollection = "users"

// CollectionProvider hands out collections on the current connection.
// *database.Mongo satisfies it.
type CollectionProvider interface {
	Collection(name string) (*mongo.Collection, error)
}

type MongoUserStore struct {
	db CollectionProvider
}

func NewMongoUserStore(db CollectionProvider) *MongoUserStore {
	return &MongoUserStore{db: db}
}

// EnsureIndexes creates the unique email index the store relies on for
// duplicate detection.
func (s *MongoUserStore) EnsureIndexes(ctx context.Context) error {
	col, err := s.db.Collection(UsersCollection)
	if err != nil {
		return err
	}
	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("idx_email_unique").SetUnique(true),
	})
	return err
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) error {
	col, err := s.db.Collection(UsersCollection)
	if err != nil {
		return err
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Normalize()

	if _, err := col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, userID string) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	col, err := s.db.Collection(UsersCollection)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := col.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	user.Normalize()
	return &user, nil
}

func (s *MongoUserStore) Update(ctx context.Context, userID string, update UserUpdate) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	set := bson.M{"updatedAt": update.UpdatedAt}
	if update.Firstname != nil {
		set["firstname"] = *update.Firstname
	}
	if update.Lastname != nil {
		set["lastname"] = *update.Lastname
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Settings != nil {
		set["settings"] = *update.Settings
	}

	user, err := s.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if mongo.IsDuplicateKeyError(err) {
		return nil, apperrors.ErrDuplicateEmail
	}
	return user, err
}

func (s *MongoUserStore) SetWatchPairs(ctx context.Context, userID string, pairs []string) error {
	if pairs == nil {
		pairs = []string{}
	}
	return s.updateOne(ctx, userID, bson.M{
		"$set": bson.M{"watchPairs": pairs, "updatedAt": time.Now().UTC()},
	})
}

func (s *MongoUserStore) PushTransaction(ctx context.Context, userID string, tx models.Transaction) error {
	return s.updateOne(ctx, userID, bson.M{
		"$push": bson.M{"transactions": tx},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

// ReplaceTransaction uses the positional operator so the match and the write
// happen in one document update; concurrent edits cannot lose each other's
// changes to other elements.
func (s *MongoUserStore) ReplaceTransaction(ctx context.Context, userID string, tx models.Transaction) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	user, err := s.findOneAndUpdate(ctx,
		bson.M{"_id": id, "transactions.id": tx.ID},
		bson.M{"$set": bson.M{"transactions.$": tx, "updatedAt": time.Now().UTC()}},
	)
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return user, err
	}

	// Nothing matched: tell a missing user apart from a missing transaction.
	if _, err := s.findOne(ctx, bson.M{"_id": id}); err != nil {
		return nil, err
	}
	return nil, apperrors.ErrTransactionNotFound
}

func (s *MongoUserStore) PullTransaction(ctx context.Context, userID, transactionID string) error {
	return s.updateOne(ctx, userID, bson.M{
		"$pull": bson.M{"transactions": bson.M{"id": transactionID}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (s *MongoUserStore) updateOne(ctx context.Context, userID string, update bson.M) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperrors.ErrUserNotFound
	}
	col, err := s.db.Collection(UsersCollection)
	if err != nil {
		return err
	}

	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (s *MongoUserStore) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.User, error) {
	col, err := s.db.Collection(UsersCollection)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	if err := col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	user.Normalize()
	return &user, nil
}
