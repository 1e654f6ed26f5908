package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/robin-camp/movie-catalog/internal/domain"
	"github.com/robin-camp/movie-catalog/internal/repository"
)

// ListParams are the catalog listing inputs: a pagination window plus
// optional filters.
type ListParams struct {
	Page        int
	PageSize    int
	Title       *string
	ReleaseYear *int
	Genre       *string
}

// ListItem pairs one hydrated movie with its rating aggregate.
type ListItem struct {
	Movie     domain.Movie
	Aggregate domain.RatingAggregate
}

// ListPage is one page of catalog results. TotalItems counts the full
// filtered set, independent of the window.
type ListPage struct {
	Page       int
	PageSize   int
	TotalItems int64
	Items      []ListItem
}

// MovieDetail is a fully materialized movie view with its aggregate.
type MovieDetail struct {
	Movie     domain.Movie
	Aggregate domain.RatingAggregate
}

// CatalogService serves the read side of the catalog: paginated, filtered
// listing and single-movie detail. Reads run on the pool without a wrapping
// transaction; the two listing phases are intentionally best-effort
// consistent under concurrent writes.
type CatalogService struct {
	repo *repository.Repository
}

// NewCatalogService constructs a CatalogService over the given repositories.
func NewCatalogService(repo *repository.Repository) *CatalogService {
	return &CatalogService{repo: repo}
}

// List returns one page of the filtered catalog.
//
// Phase one selects the matching id set (de-duplicated, counted in full,
// windowed by id ascending); phase two hydrates only the page's ids and
// fetches their aggregates in a single batch. Hydration and aggregation cost
// scales with the page size, not the catalog size, and items are emitted in
// page-id order.
func (s *CatalogService) List(ctx context.Context, params ListParams) (ListPage, error) {
	if params.Page < 1 {
		return ListPage{}, domain.NewValidation("page must be >= 1")
	}
	if params.PageSize < 1 {
		return ListPage{}, domain.NewValidation("page_size must be >= 1")
	}

	filters := repository.MovieListFilters{
		Title:       params.Title,
		ReleaseYear: params.ReleaseYear,
		Genre:       params.Genre,
	}

	total, err := s.repo.Movies.CountIDs(ctx, filters)
	if err != nil {
		return ListPage{}, fmt.Errorf("count catalog: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	ids, err := s.repo.Movies.ListIDs(ctx, filters, params.PageSize, offset)
	if err != nil {
		return ListPage{}, fmt.Errorf("select page ids: %w", err)
	}

	page := ListPage{
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalItems: total,
		Items:      make([]ListItem, 0, len(ids)),
	}
	if len(ids) == 0 {
		return page, nil
	}

	movies, err := s.repo.Movies.GetByIDs(ctx, ids)
	if err != nil {
		return ListPage{}, fmt.Errorf("hydrate page: %w", err)
	}
	aggregates, err := s.repo.Ratings.AggregateBatch(ctx, ids)
	if err != nil {
		return ListPage{}, fmt.Errorf("aggregate page: %w", err)
	}

	for _, movie := range movies {
		page.Items = append(page.Items, ListItem{
			Movie:     movie,
			Aggregate: aggregates[movie.ID],
		})
	}
	return page, nil
}

// GetDetail returns a single movie with director, genre set, and aggregate.
func (s *CatalogService) GetDetail(ctx context.Context, id int64) (MovieDetail, error) {
	return movieDetail(ctx, s.repo, id)
}

func movieDetail(ctx context.Context, repo *repository.Repository, id int64) (MovieDetail, error) {
	movie, err := repo.Movies.GetWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return MovieDetail{}, domain.NewNotFound("movie", id)
		}
		return MovieDetail{}, fmt.Errorf("load movie %d: %w", id, err)
	}

	agg, err := repo.Ratings.Aggregate(ctx, id)
	if err != nil {
		return MovieDetail{}, err
	}
	return MovieDetail{Movie: movie, Aggregate: agg}, nil
}
