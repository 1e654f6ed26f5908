package domain

import "time"

// Score bounds for a single rating.
const (
	MinScore = 1
	MaxScore = 10
)

// Rating is one entry in a movie's append-only rating ledger. Ratings are
// never updated or deleted; corrections are modeled as new ratings.
type Rating struct {
	ID        int64
	MovieID   int64
	Score     int
	CreatedAt time.Time
}

// RatingAggregate provides the derived statistics for a movie's ledger.
// Average is nil when the movie has no ratings, never zero.
type RatingAggregate struct {
	Average *float64
	Count   int64
}
