package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/robin-camp/movie-catalog/internal/domain"
	"github.com/robin-camp/movie-catalog/internal/repository"
	"github.com/robin-camp/movie-catalog/internal/store"
)

// CreateMovieInput is the payload for creating a movie with its genre set.
type CreateMovieInput struct {
	Title       string  `json:"title"`
	DirectorID  int64   `json:"director_id"`
	ReleaseYear int     `json:"release_year"`
	Cast        *string `json:"cast"`
	Genres      []int64 `json:"genres"`
}

// UpdateMovieInput is a partial update: only fields present in the request
// are applied. A present genres field (including an explicit empty list)
// replaces the movie's genre set entirely.
type UpdateMovieInput struct {
	Title       Optional[string]  `json:"title"`
	ReleaseYear Optional[int]     `json:"release_year"`
	Cast        Optional[string]  `json:"cast"`
	Genres      Optional[[]int64] `json:"genres"`
}

// MovieService owns the mutating use cases: movie create/update/delete and
// rating creation. Every multi-row mutation runs inside exactly one
// transaction; validation failures and store failures both roll it back in
// full before the error is surfaced.
type MovieService struct {
	store  *store.Store
	repo   *repository.Repository
	logger *log.Logger
}

// NewMovieService constructs a MovieService.
func NewMovieService(st *store.Store, repo *repository.Repository, logger *log.Logger) *MovieService {
	if logger == nil {
		logger = log.Default()
	}
	return &MovieService{store: st, repo: repo, logger: logger}
}

// Create validates the director reference and the requested genre set, then
// inserts the movie row and its associations as one atomic unit. The
// returned detail is read back after commit, aggregates included.
func (s *MovieService) Create(ctx context.Context, input CreateMovieInput) (MovieDetail, error) {
	if strings.TrimSpace(input.Title) == "" {
		return MovieDetail{}, domain.NewValidation("title is required")
	}

	var movieID int64
	err := s.store.WithTx(ctx, func(tx pgx.Tx) error {
		txRepo := s.repo.WithTx(tx)

		exists, err := txRepo.Directors.Exists(ctx, input.DirectorID)
		if err != nil {
			return fmt.Errorf("check director: %w", err)
		}
		if !exists {
			return domain.NewValidation("director not found")
		}

		genreIDs, err := resolveGenreIDs(ctx, txRepo, input.Genres)
		if err != nil {
			return err
		}

		movieID, err = txRepo.Movies.Create(ctx, repository.MovieCreateParams{
			Title:       strings.TrimSpace(input.Title),
			DirectorID:  input.DirectorID,
			ReleaseYear: input.ReleaseYear,
			Cast:        input.Cast,
		})
		if err != nil {
			return err
		}
		return txRepo.Movies.ReplaceGenres(ctx, movieID, genreIDs)
	})
	if err != nil {
		return MovieDetail{}, err
	}

	return movieDetail(ctx, s.repo, movieID)
}

// Update applies the fields present in input to an existing movie. When the
// genre set is present it is fully replaced; unresolvable genre ids abort
// the whole transaction, discarding any field changes already staged, so a
// movie is never left with field updates applied but a partial genre set.
func (s *MovieService) Update(ctx context.Context, id int64, input UpdateMovieInput) (MovieDetail, error) {
	if input.Title.Null {
		return MovieDetail{}, domain.NewValidation("title cannot be null")
	}
	if input.Title.IsValue() && strings.TrimSpace(input.Title.Value) == "" {
		return MovieDetail{}, domain.NewValidation("title cannot be empty")
	}
	if input.ReleaseYear.Null {
		return MovieDetail{}, domain.NewValidation("release_year cannot be null")
	}

	err := s.store.WithTx(ctx, func(tx pgx.Tx) error {
		txRepo := s.repo.WithTx(tx)

		movie, err := txRepo.Movies.GetWithRelations(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.NewNotFound("movie", id)
			}
			return fmt.Errorf("load movie %d: %w", id, err)
		}

		if input.Title.IsValue() {
			movie.Title = strings.TrimSpace(input.Title.Value)
		}
		if input.ReleaseYear.IsValue() {
			movie.ReleaseYear = input.ReleaseYear.Value
		}
		if input.Cast.Present {
			if input.Cast.Null {
				movie.Cast = nil
			} else {
				movie.Cast = &input.Cast.Value
			}
		}

		if err := txRepo.Movies.Update(ctx, id, movie.Title, movie.ReleaseYear, movie.Cast); err != nil {
			return err
		}

		// Genre resolution runs after the field update is staged; a missing
		// id rolls the whole transaction back.
		if input.Genres.IsValue() {
			genreIDs, err := resolveGenreIDs(ctx, txRepo, input.Genres.Value)
			if err != nil {
				return err
			}
			return txRepo.Movies.ReplaceGenres(ctx, id, genreIDs)
		}
		return nil
	})
	if err != nil {
		return MovieDetail{}, err
	}

	return movieDetail(ctx, s.repo, id)
}

// Delete removes a movie, its genre associations, and its rating ledger in
// one transaction. Deleting an absent id is an error, not a silent no-op.
func (s *MovieService) Delete(ctx context.Context, id int64) error {
	return s.store.WithTx(ctx, func(tx pgx.Tx) error {
		txRepo := s.repo.WithTx(tx)

		exists, err := txRepo.Movies.Exists(ctx, id)
		if err != nil {
			return fmt.Errorf("check movie: %w", err)
		}
		if !exists {
			return domain.NewNotFound("movie", id)
		}
		return txRepo.Movies.Delete(ctx, id)
	})
}

// CreateRating appends one rating to a movie's ledger after validating the
// score bounds and the movie reference.
func (s *MovieService) CreateRating(ctx context.Context, movieID int64, score int) (domain.Rating, error) {
	if score < domain.MinScore || score > domain.MaxScore {
		return domain.Rating{}, domain.NewValidation(
			fmt.Sprintf("score must be between %d and %d", domain.MinScore, domain.MaxScore))
	}

	var rating domain.Rating
	err := s.store.WithTx(ctx, func(tx pgx.Tx) error {
		txRepo := s.repo.WithTx(tx)

		exists, err := txRepo.Movies.Exists(ctx, movieID)
		if err != nil {
			return fmt.Errorf("check movie: %w", err)
		}
		if !exists {
			return domain.NewNotFound("movie", movieID)
		}

		rating, err = txRepo.Ratings.Create(ctx, movieID, score)
		return err
	})
	if err != nil {
		return domain.Rating{}, err
	}
	return rating, nil
}

// resolveGenreIDs de-duplicates the requested ids preserving order, resolves
// them against the genres table, and fails naming the missing ids when any
// requested genre does not exist.
func resolveGenreIDs(ctx context.Context, repo *repository.Repository, requested []int64) ([]int64, error) {
	unique := make([]int64, 0, len(requested))
	seen := make(map[int64]struct{}, len(requested))
	for _, id := range requested {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil, nil
	}

	genres, err := repo.Genres.GetByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("resolve genres: %w", err)
	}

	found := make(map[int64]struct{}, len(genres))
	for _, genre := range genres {
		found[genre.ID] = struct{}{}
	}
	var missing []int64
	for _, id := range unique {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewMissingGenres(missing)
	}
	return unique, nil
}
