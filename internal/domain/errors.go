package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrIntegrity marks a write the store rejected despite passing
// application-level validation, e.g. a race-induced constraint violation.
var ErrIntegrity = errors.New("integrity failure")

// NotFoundError indicates a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// NewNotFound constructs a NotFoundError for the given entity and id.
func NewNotFound(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError indicates rejected input: an out-of-range score,
// unresolvable genre ids, or a missing director. The message carries enough
// detail for the caller to correct the request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation constructs a ValidationError with a fixed message.
func NewValidation(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NewMissingGenres constructs a ValidationError naming the genre ids that
// could not be resolved.
func NewMissingGenres(ids []int64) *ValidationError {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return &ValidationError{Message: "genres not found: [" + strings.Join(parts, ", ") + "]"}
}
