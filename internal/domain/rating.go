package domain

import "time"

// Score bounds for a rating.
const (
	MinScore = 1
	MaxScore = 5
)

// IsValidScore reports whether the score lies in the accepted range.
func IsValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}

// Rating is a single user's score for a product. One rating per user per
// product, enforced by a database constraint.
type Rating struct {
	ID          string    `json:"id"`
	ProductCode string    `json:"productCode"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	Score       int       `json:"score"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// RatingSummary is the aggregate over all ratings of a product. Average is 0
// when Count is 0.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// HistoryEntry is one item in a user's scan-and-rate history: their rating
// joined with the product it belongs to.
type HistoryEntry struct {
	Rating       Rating `json:"rating"`
	ProductName  string `json:"productName"`
	Origin       string `json:"origin"`
	ImageURL     string `json:"imageUrl,omitempty"`
	ProducerName string `json:"producerName"`
}
