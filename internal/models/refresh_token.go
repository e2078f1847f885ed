package models

import "time"

// RefreshToken links an issued refresh token to its user so it can be
// revoked before it expires.
type RefreshToken struct {
	UserID    string    `bson:"userId" json:"userId"`
	Token     string    `bson:"refreshToken" json:"refreshToken"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
}
