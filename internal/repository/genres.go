package repository

import (
	"context"
	"fmt"

	"github.com/robin-camp/movie-catalog/internal/domain"
)

// GenresRepository provides read access to genre rows.
type GenresRepository struct {
	db DB
}

// GetByIDs resolves the given genre ids to rows. Missing ids are simply
// absent from the result; callers compare against the request to report
// unresolvable ids. An empty input returns nil without querying.
func (r *GenresRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Genre, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const query = `SELECT id, name, description FROM genres WHERE id = ANY($1) ORDER BY id`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("load genres: %w", err)
	}
	defer rows.Close()

	genres := make([]domain.Genre, 0, len(ids))
	for rows.Next() {
		var genre domain.Genre
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Description); err != nil {
			return nil, err
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return genres, nil
}
