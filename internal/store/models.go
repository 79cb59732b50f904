package store

import "time"

// ItemRecord is the persisted result of processing one item message. Its ID
// is the envelope ID, so reprocessing a redelivered envelope rewrites the
// same row.
type ItemRecord struct {
	ID                 string    `json:"id" bson:"_id" db:"id"`
	CustomerID         int       `json:"customer_id" bson:"customer_id" db:"customer_id"`
	ItemData           string    `json:"item_data" bson:"item_data" db:"item_data"`
	ContainsHelloWorld bool      `json:"contains_hello_world" bson:"contains_hello_world" db:"contains_hello_world"`
	IsPalindrome       bool      `json:"is_palindrome" bson:"is_palindrome" db:"is_palindrome"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

// QuoteRecord is the persisted result of rating one quote request.
type QuoteRecord struct {
	ID                  string    `json:"id" bson:"_id" db:"id"`
	Name                string    `json:"name" bson:"name" db:"name"`
	Email               string    `json:"email" bson:"email" db:"email"`
	CarType             string    `json:"car_type" bson:"car_type" db:"car_type"`
	CreditScoreEstimate int       `json:"credit_score_estimate" bson:"credit_score_estimate" db:"credit_score_estimate"`
	MonthlyPremium      int       `json:"monthly_premium" bson:"monthly_premium" db:"monthly_premium"`
	CreatedAt           time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}
