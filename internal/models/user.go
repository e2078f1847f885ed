package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Firstname      string `bson:"firstname" json:"firstname"`
	Lastname       string `bson:"lastname" json:"lastname"`
	Email          string `bson:"email" json:"email"`
	HashedPassword string `bson:"hashedPassword" json:"-"` // Don't return password in JSON

	WatchPairs   []string               `bson:"watchPairs" json:"watchPairs"`
	Transactions []Transaction          `bson:"transactions" json:"transactions"`
	Settings     map[string]interface{} `bson:"settings,omitempty" json:"settings"`
}

// Profile is the public subset returned by the profile endpoints.
type Profile struct {
	ID        string                 `json:"id,omitempty"`
	Firstname string                 `json:"firstname"`
	Lastname  string                 `json:"lastname"`
	Email     string                 `json:"email"`
	Settings  map[string]interface{} `json:"settings"`
}

// ToProfile never returns nil settings so clients always get an object.
func (u *User) ToProfile() Profile {
	settings := u.Settings
	if settings == nil {
		settings = map[string]interface{}{}
	}
	return Profile{
		ID:        u.ID.Hex(),
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Email:     u.Email,
		Settings:  settings,
	}
}

// FindTransaction returns the index of the transaction with the given id, or -1.
func (u *User) FindTransaction(id string) int {
	for i := range u.Transactions {
		if u.Transactions[i].ID == id {
			return i
		}
	}
	return -1
}

// Normalize replaces nil collections with empty ones. Documents written by
// older clients may lack these fields entirely.
func (u *User) Normalize() {
	if u.WatchPairs == nil {
		u.WatchPairs = []string{}
	}
	if u.Transactions == nil {
		u.Transactions = []Transaction{}
	}
	if u.Settings == nil {
		u.Settings = map[string]interface{}{}
	}
}
