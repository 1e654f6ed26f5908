package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robin-camp/movie-catalog/internal/domain"
	"github.com/robin-camp/movie-catalog/internal/service"
)

const maxRequestBody = 1 << 20 // 1 MiB

const defaultPageSize = 10

type successEnvelope struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

type failureEnvelope struct {
	Status string      `json:"status"`
	Error  errorDetail `json:"error"`
}

type errorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type directorSummaryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type directorResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	BirthYear   *int    `json:"birth_year"`
	Description *string `json:"description"`
}

type movieListItemResponse struct {
	ID            int64                   `json:"id"`
	Title         string                  `json:"title"`
	ReleaseYear   int                     `json:"release_year"`
	Director      directorSummaryResponse `json:"director"`
	Genres        []string                `json:"genres"`
	AverageRating *float64                `json:"average_rating"`
	RatingsCount  int64                   `json:"ratings_count"`
}

type movieListPageResponse struct {
	Page       int                     `json:"page"`
	PageSize   int                     `json:"page_size"`
	TotalItems int64                   `json:"total_items"`
	Items      []movieListItemResponse `json:"items"`
}

type movieDetailResponse struct {
	ID            int64            `json:"id"`
	Title         string           `json:"title"`
	ReleaseYear   int              `json:"release_year"`
	Director      directorResponse `json:"director"`
	Genres        []string         `json:"genres"`
	Cast          *string          `json:"cast"`
	AverageRating *float64         `json:"average_rating"`
	RatingsCount  int64            `json:"ratings_count"`
}

type ratingCreateRequest struct {
	Score int `json:"score"`
}

type ratingResponse struct {
	ID        int64     `json:"id"`
	MovieID   int64     `json:"movie_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	params, err := buildListParams(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := s.catalog.List(r.Context(), params)
	if err != nil {
		s.respondServiceError(w, err, "Failed to list movies")
		return
	}

	items := make([]movieListItemResponse, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, toListItemResponse(item))
	}
	s.respondSuccess(w, http.StatusOK, movieListPageResponse{
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		Items:      items,
	})
}

func buildListParams(query url.Values) (service.ListParams, error) {
	params := service.ListParams{Page: 1, PageSize: defaultPageSize}

	if val := strings.TrimSpace(query.Get("page")); val != "" {
		page, err := strconv.Atoi(val)
		if err != nil {
			return params, fmt.Errorf("invalid page value")
		}
		params.Page = page
	}
	if val := strings.TrimSpace(query.Get("page_size")); val != "" {
		size, err := strconv.Atoi(val)
		if err != nil {
			return params, fmt.Errorf("invalid page_size value")
		}
		params.PageSize = size
	}
	if val := strings.TrimSpace(query.Get("title")); val != "" {
		params.Title = &val
	}
	if val := strings.TrimSpace(query.Get("release_year")); val != "" {
		year, err := strconv.Atoi(val)
		if err != nil {
			return params, fmt.Errorf("invalid release_year value")
		}
		params.ReleaseYear = &year
	}
	if val := strings.TrimSpace(query.Get("genre")); val != "" {
		params.Genre = &val
	}
	return params, nil
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := movieIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := s.catalog.GetDetail(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err, "Failed to fetch movie")
		return
	}
	s.respondSuccess(w, http.StatusOK, toDetailResponse(detail))
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var input service.CreateMovieInput
	if err := decodeJSONBody(w, r, &input); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	detail, err := s.movies.Create(r.Context(), input)
	if err != nil {
		s.respondServiceError(w, err, "Failed to create movie")
		return
	}
	s.respondSuccess(w, http.StatusCreated, toDetailResponse(detail))
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := movieIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var input service.UpdateMovieInput
	if err := decodeJSONBody(w, r, &input); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	detail, err := s.movies.Update(r.Context(), id, input)
	if err != nil {
		s.respondServiceError(w, err, "Failed to update movie")
		return
	}
	s.respondSuccess(w, http.StatusOK, toDetailResponse(detail))
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := movieIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.movies.Delete(r.Context(), id); err != nil {
		s.respondServiceError(w, err, "Failed to delete movie")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateRating(w http.ResponseWriter, r *http.Request) {
	id, err := movieIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ratingCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	rating, err := s.movies.CreateRating(r.Context(), id, req.Score)
	if err != nil {
		s.respondServiceError(w, err, "Failed to create rating")
		return
	}
	s.respondSuccess(w, http.StatusCreated, ratingResponse{
		ID:        rating.ID,
		MovieID:   rating.MovieID,
		Score:     rating.Score,
		CreatedAt: rating.CreatedAt,
	})
}

func movieIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "movieID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid movie id")
	}
	return id, nil
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Printf("failed to encode response: %v", err)
		}
	}
}

func (s *Server) respondSuccess(w http.ResponseWriter, status int, data interface{}) {
	s.respondJSON(w, status, successEnvelope{Status: "success", Data: data})
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, failureEnvelope{
		Status: "failure",
		Error:  errorDetail{Code: status, Message: message},
	})
}

// respondServiceError maps domain errors onto the failure envelope. Anything
// outside the taxonomy is logged and surfaced as a generic failure without
// leaking internals.
func (s *Server) respondServiceError(w http.ResponseWriter, err error, generic string) {
	var notFound *domain.NotFoundError
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &notFound):
		s.respondError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &validation):
		s.respondError(w, http.StatusUnprocessableEntity, validation.Error())
	case errors.Is(err, domain.ErrIntegrity):
		s.logger.Printf("integrity failure: %v", err)
		s.respondError(w, http.StatusInternalServerError, generic)
	default:
		s.logger.Printf("%s: %v", generic, err)
		s.respondError(w, http.StatusInternalServerError, generic)
	}
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusUnprocessableEntity, "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "Unable to parse request body")
	}
}

func toListItemResponse(item service.ListItem) movieListItemResponse {
	return movieListItemResponse{
		ID:          item.Movie.ID,
		Title:       item.Movie.Title,
		ReleaseYear: item.Movie.ReleaseYear,
		Director: directorSummaryResponse{
			ID:   item.Movie.Director.ID,
			Name: item.Movie.Director.Name,
		},
		Genres:        item.Movie.GenreNames(),
		AverageRating: item.Aggregate.Average,
		RatingsCount:  item.Aggregate.Count,
	}
}

func toDetailResponse(detail service.MovieDetail) movieDetailResponse {
	return movieDetailResponse{
		ID:          detail.Movie.ID,
		Title:       detail.Movie.Title,
		ReleaseYear: detail.Movie.ReleaseYear,
		Director: directorResponse{
			ID:          detail.Movie.Director.ID,
			Name:        detail.Movie.Director.Name,
			BirthYear:   detail.Movie.Director.BirthYear,
			Description: detail.Movie.Director.Description,
		},
		Genres:        detail.Movie.GenreNames(),
		Cast:          detail.Movie.Cast,
		AverageRating: detail.Aggregate.Average,
		RatingsCount:  detail.Aggregate.Count,
	}
}
