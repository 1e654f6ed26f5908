package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/robin-camp/movie-catalog/internal/domain"
)

// DirectorsRepository provides read access to director rows. Directors are
// seeded out-of-band; this core never mutates them.
type DirectorsRepository struct {
	db DB
}

// GetByID fetches a director by its identifier.
func (r *DirectorsRepository) GetByID(ctx context.Context, id int64) (domain.Director, error) {
	const query = `SELECT id, name, birth_year, description FROM directors WHERE id = $1`

	var director domain.Director
	err := r.db.QueryRow(ctx, query, id).Scan(
		&director.ID,
		&director.Name,
		&director.BirthYear,
		&director.Description,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Director{}, ErrNotFound
		}
		return domain.Director{}, err
	}
	return director, nil
}

// Exists reports whether a director row with the given id is present.
func (r *DirectorsRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM directors WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
