package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robin-camp/movie-catalog/internal/domain"
	"github.com/robin-camp/movie-catalog/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// DB is the subset of pgx operations repositories execute against. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so the same repository code serves
// pool-backed reads and transaction-backed mutations.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository aggregates all domain-specific repositories bound to one DB.
type Repository struct {
	Movies    *MoviesRepository
	Directors *DirectorsRepository
	Genres    *GenresRepository
	Ratings   *RatingsRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return newWithDB(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return newWithDB(pool)
}

// WithTx returns a Repository whose operations run inside tx. The caller owns
// the transaction lifecycle; see store.WithTx.
func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return newWithDB(tx)
}

func newWithDB(db DB) *Repository {
	return &Repository{
		Movies:    &MoviesRepository{db: db},
		Directors: &DirectorsRepository{db: db},
		Genres:    &GenresRepository{db: db},
		Ratings:   &RatingsRepository{db: db},
	}
}

// Postgres error classes for integrity_constraint_violation.
const pgIntegrityClass = "23"

// classifyError maps store-level constraint violations onto the domain
// integrity error so callers can distinguish them from infrastructure
// failures without inspecting driver types.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 && pgErr.Code[:2] == pgIntegrityClass {
		return errors.Join(domain.ErrIntegrity, err)
	}
	return err
}
