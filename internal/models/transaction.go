package models

import "time"

const (
	TransactionTypeBuy  = "buy"
	TransactionTypeSell = "sell"
)

// Transaction is embedded in the owning user's document and has no
// collection of its own.
type Transaction struct {
	ID              string    `bson:"id" json:"id"`
	Timestamp       time.Time `bson:"timestamp" json:"timestamp"`
	Type            string    `bson:"type" json:"type"`
	Coin            string    `bson:"coin" json:"coin"`
	NumCoins        float64   `bson:"numCoins" json:"numCoins"`
	Currency        string    `bson:"currency" json:"currency"`
	TotalAmountPaid float64   `bson:"totalAmountPaid" json:"totalAmountPaid"`
	Fee             float64   `bson:"fee" json:"fee"`
	Notes           string    `bson:"notes" json:"notes"`
	Exchange        string    `bson:"exchange" json:"exchange"`
}
