package repository

import (
	"context"
	"fmt"

	"github.com/robin-camp/movie-catalog/internal/domain"
)

// RatingsRepository provides helpers for the append-only rating ledger and
// its derived aggregates.
type RatingsRepository struct {
	db DB
}

// Aggregate returns the rating average and count for a single movie in one
// grouped query. A movie with no ratings yields a nil average and count 0.
func (r *RatingsRepository) Aggregate(ctx context.Context, movieID int64) (domain.RatingAggregate, error) {
	const query = `
        SELECT AVG(score)::float8, COUNT(id)
        FROM movie_ratings
        WHERE movie_id = $1
    `
	var agg domain.RatingAggregate
	if err := r.db.QueryRow(ctx, query, movieID).Scan(&agg.Average, &agg.Count); err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("aggregate ratings: %w", err)
	}
	return agg, nil
}

// AggregateBatch returns aggregates for every requested movie id via a single
// grouped query outer-joined against the id set, so unrated movies are still
// present with count 0 and a nil average. There is never one query per movie.
// An empty id set returns an empty map without querying.
func (r *RatingsRepository) AggregateBatch(ctx context.Context, movieIDs []int64) (map[int64]domain.RatingAggregate, error) {
	aggregates := make(map[int64]domain.RatingAggregate, len(movieIDs))
	if len(movieIDs) == 0 {
		return aggregates, nil
	}
	for _, id := range movieIDs {
		aggregates[id] = domain.RatingAggregate{}
	}

	const query = `
        SELECT m.id, AVG(r.score)::float8, COUNT(r.id)
        FROM movies m
        LEFT JOIN movie_ratings r ON r.movie_id = m.id
        WHERE m.id = ANY($1)
        GROUP BY m.id
    `
	rows, err := r.db.Query(ctx, query, movieIDs)
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings batch: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var agg domain.RatingAggregate
		if err := rows.Scan(&id, &agg.Average, &agg.Count); err != nil {
			return nil, err
		}
		aggregates[id] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return aggregates, nil
}

// Create appends one rating row to a movie's ledger and returns the stored
// entry with its insertion timestamp. There is no update or delete path.
func (r *RatingsRepository) Create(ctx context.Context, movieID int64, score int) (domain.Rating, error) {
	const query = `
        INSERT INTO movie_ratings (movie_id, score)
        VALUES ($1,$2)
        RETURNING id, movie_id, score, created_at
    `
	var rating domain.Rating
	err := r.db.QueryRow(ctx, query, movieID, score).Scan(
		&rating.ID,
		&rating.MovieID,
		&rating.Score,
		&rating.CreatedAt,
	)
	if err != nil {
		return domain.Rating{}, classifyError(fmt.Errorf("insert rating: %w", err))
	}
	return rating, nil
}
