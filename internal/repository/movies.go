package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/robin-camp/movie-catalog/internal/domain"
)

// MoviesRepository provides persistence helpers for movie entities.
type MoviesRepository struct {
	db DB
}

// MovieListFilters encapsulates the optional catalog listing filters.
type MovieListFilters struct {
	Title       *string
	ReleaseYear *int
	Genre       *string
}

// MovieCreateParams bundles the fields required to insert a movie row.
// Genre associations are installed separately via ReplaceGenres.
type MovieCreateParams struct {
	Title       string
	DirectorID  int64
	ReleaseYear int
	Cast        *string
}

// whereClause builds the shared filter predicate for id selection and
// counting. The movie_genres/genres join is only added when a genre filter
// is present.
func (f MovieListFilters) whereClause() (join string, where []string, args []any) {
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Title != nil && strings.TrimSpace(*f.Title) != "" {
		where = append(where, fmt.Sprintf("m.title ILIKE %s", arg("%"+strings.TrimSpace(*f.Title)+"%")))
	}
	if f.ReleaseYear != nil {
		where = append(where, fmt.Sprintf("m.release_year = %s", arg(*f.ReleaseYear)))
	}
	if f.Genre != nil && strings.TrimSpace(*f.Genre) != "" {
		join = ` JOIN movie_genres mg ON mg.movie_id = m.id JOIN genres g ON g.id = mg.genre_id`
		where = append(where, fmt.Sprintf("lower(g.name) = lower(%s)", arg(strings.TrimSpace(*f.Genre))))
	}
	return join, where, args
}

// CountIDs returns the size of the filtered, de-duplicated id set,
// independent of any pagination window.
func (r *MoviesRepository) CountIDs(ctx context.Context, filters MovieListFilters) (int64, error) {
	join, where, args := filters.whereClause()

	query := strings.Builder{}
	query.WriteString("SELECT COUNT(DISTINCT m.id) FROM movies m")
	query.WriteString(join)
	if len(where) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(where, " AND "))
	}

	var total int64
	if err := r.db.QueryRow(ctx, query.String(), args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return total, nil
}

// ListIDs selects one page of matching movie ids ordered ascending by id.
func (r *MoviesRepository) ListIDs(ctx context.Context, filters MovieListFilters, limit, offset int) ([]int64, error) {
	join, where, args := filters.whereClause()

	query := strings.Builder{}
	query.WriteString("SELECT DISTINCT m.id FROM movies m")
	query.WriteString(join)
	if len(where) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(where, " AND "))
	}
	args = append(args, limit)
	query.WriteString(fmt.Sprintf(" ORDER BY m.id LIMIT $%d", len(args)))
	args = append(args, offset)
	query.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))

	rows, err := r.db.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list movie ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, limit)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

const movieSelect = `
    SELECT m.id, m.title, m.director_id, m.release_year, m."cast",
           d.id, d.name, d.birth_year, d.description
    FROM movies m
    JOIN directors d ON d.id = m.director_id
`

// GetByIDs hydrates full movie records (director attached, genre set
// attached) for exactly the given ids, preserving input order. Ids that no
// longer exist are silently dropped; cost scales with len(ids).
func (r *MoviesRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Movie, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, movieSelect+` WHERE m.id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate movies: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]domain.Movie, len(ids))
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		byID[movie.ID] = movie
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	genres, err := r.genresByMovie(ctx, ids)
	if err != nil {
		return nil, err
	}

	ordered := make([]domain.Movie, 0, len(byID))
	for _, id := range ids {
		movie, ok := byID[id]
		if !ok {
			continue
		}
		movie.Genres = genres[id]
		ordered = append(ordered, movie)
	}
	return ordered, nil
}

// GetWithRelations fetches a single movie with director and genre set.
func (r *MoviesRepository) GetWithRelations(ctx context.Context, id int64) (domain.Movie, error) {
	row := r.db.QueryRow(ctx, movieSelect+` WHERE m.id = $1`, id)
	movie, err := scanMovie(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}

	genres, err := r.genresByMovie(ctx, []int64{id})
	if err != nil {
		return domain.Movie{}, err
	}
	movie.Genres = genres[id]
	return movie, nil
}

// Exists reports whether a movie row with the given id is present.
func (r *MoviesRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM movies WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("movie exists: %w", err)
	}
	return exists, nil
}

// Create inserts a new movie row and returns its id.
func (r *MoviesRepository) Create(ctx context.Context, params MovieCreateParams) (int64, error) {
	const query = `
        INSERT INTO movies (title, director_id, release_year, "cast")
        VALUES ($1,$2,$3,$4)
        RETURNING id
    `
	var id int64
	err := r.db.QueryRow(ctx, query, params.Title, params.DirectorID, params.ReleaseYear, params.Cast).Scan(&id)
	if err != nil {
		return 0, classifyError(fmt.Errorf("insert movie: %w", err))
	}
	return id, nil
}

// Update writes the movie's mutable fields unconditionally. The service
// layer stages partial updates in memory and passes the final values here.
func (r *MoviesRepository) Update(ctx context.Context, id int64, title string, releaseYear int, cast *string) error {
	const query = `
        UPDATE movies
        SET title = $2, release_year = $3, "cast" = $4
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, id, title, releaseYear, cast)
	if err != nil {
		return classifyError(fmt.Errorf("update movie: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceGenres discards the movie's existing genre association set and
// installs genreIDs in its place. An empty set clears all associations.
func (r *MoviesRepository) ReplaceGenres(ctx context.Context, movieID int64, genreIDs []int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM movie_genres WHERE movie_id = $1`, movieID); err != nil {
		return classifyError(fmt.Errorf("clear movie genres: %w", err))
	}
	if len(genreIDs) == 0 {
		return nil
	}
	const query = `
        INSERT INTO movie_genres (movie_id, genre_id)
        SELECT $1, unnest($2::bigint[])
    `
	if _, err := r.db.Exec(ctx, query, movieID, genreIDs); err != nil {
		return classifyError(fmt.Errorf("insert movie genres: %w", err))
	}
	return nil
}

// Delete removes the movie's association rows, then its rating rows, then
// the movie row itself. The ordering keeps referential integrity intact even
// under deferred constraints; callers wrap this in a transaction.
func (r *MoviesRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM movie_genres WHERE movie_id = $1`, id); err != nil {
		return classifyError(fmt.Errorf("delete movie genres: %w", err))
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM movie_ratings WHERE movie_id = $1`, id); err != nil {
		return classifyError(fmt.Errorf("delete movie ratings: %w", err))
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return classifyError(fmt.Errorf("delete movie: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// genresByMovie fetches the genre sets for the given movie ids in one query.
func (r *MoviesRepository) genresByMovie(ctx context.Context, movieIDs []int64) (map[int64][]domain.Genre, error) {
	const query = `
        SELECT mg.movie_id, g.id, g.name, g.description
        FROM movie_genres mg
        JOIN genres g ON g.id = mg.genre_id
        WHERE mg.movie_id = ANY($1)
        ORDER BY mg.movie_id, g.id
    `
	rows, err := r.db.Query(ctx, query, movieIDs)
	if err != nil {
		return nil, fmt.Errorf("load movie genres: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.Genre)
	for rows.Next() {
		var movieID int64
		var genre domain.Genre
		if err := rows.Scan(&movieID, &genre.ID, &genre.Name, &genre.Description); err != nil {
			return nil, err
		}
		result[movieID] = append(result[movieID], genre)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var movie domain.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.DirectorID,
		&movie.ReleaseYear,
		&movie.Cast,
		&movie.Director.ID,
		&movie.Director.Name,
		&movie.Director.BirthYear,
		&movie.Director.Description,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	return movie, nil
}
