package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalDecoding(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		check   func(t *testing.T, input UpdateMovieInput)
	}{
		{
			name:    "absent fields stay absent",
			payload: `{}`,
			check: func(t *testing.T, input UpdateMovieInput) {
				assert.False(t, input.Title.Present)
				assert.False(t, input.ReleaseYear.Present)
				assert.False(t, input.Cast.Present)
				assert.False(t, input.Genres.Present)
			},
		},
		{
			name:    "explicit null is present but null",
			payload: `{"cast": null}`,
			check: func(t *testing.T, input UpdateMovieInput) {
				assert.True(t, input.Cast.Present)
				assert.True(t, input.Cast.Null)
				assert.False(t, input.Cast.IsValue())
				assert.False(t, input.Title.Present)
			},
		},
		{
			name:    "value is present and non-null",
			payload: `{"title": "Renamed", "release_year": 2004}`,
			check: func(t *testing.T, input UpdateMovieInput) {
				assert.True(t, input.Title.IsValue())
				assert.Equal(t, "Renamed", input.Title.Value)
				assert.True(t, input.ReleaseYear.IsValue())
				assert.Equal(t, 2004, input.ReleaseYear.Value)
			},
		},
		{
			name:    "empty genre list is a value, not an absence",
			payload: `{"genres": []}`,
			check: func(t *testing.T, input UpdateMovieInput) {
				assert.True(t, input.Genres.IsValue())
				assert.Empty(t, input.Genres.Value)
			},
		},
		{
			name:    "genre ids decode",
			payload: `{"genres": [3, 1, 3]}`,
			check: func(t *testing.T, input UpdateMovieInput) {
				assert.True(t, input.Genres.IsValue())
				assert.Equal(t, []int64{3, 1, 3}, input.Genres.Value)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var input UpdateMovieInput
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &input))
			tt.check(t, input)
		})
	}
}

func TestOptionalRejectsWrongType(t *testing.T) {
	var input UpdateMovieInput
	err := json.Unmarshal([]byte(`{"release_year": "abc"}`), &input)
	require.Error(t, err)
}
