package httpserver

import (
	"net/url"
	"testing"
)

func TestBuildListParams(t *testing.T) {
	values, _ := url.ParseQuery("page=3&page_size=25&title= Heat &release_year=1995&genre=Action")

	params, err := buildListParams(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Page != 3 {
		t.Fatalf("page = %d, want 3", params.Page)
	}
	if params.PageSize != 25 {
		t.Fatalf("page_size = %d, want 25", params.PageSize)
	}
	if params.Title == nil || *params.Title != "Heat" {
		t.Fatalf("title not trimmed: %+v", params.Title)
	}
	if params.ReleaseYear == nil || *params.ReleaseYear != 1995 {
		t.Fatalf("release_year parse failed: %+v", params.ReleaseYear)
	}
	if params.Genre == nil || *params.Genre != "Action" {
		t.Fatalf("genre parse failed: %+v", params.Genre)
	}
}

func TestBuildListParams_Defaults(t *testing.T) {
	params, err := buildListParams(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Page != 1 || params.PageSize != defaultPageSize {
		t.Fatalf("defaults = page %d size %d", params.Page, params.PageSize)
	}
	if params.Title != nil || params.ReleaseYear != nil || params.Genre != nil {
		t.Fatalf("filters should default to nil")
	}
}

func TestBuildListParams_Invalid(t *testing.T) {
	for _, raw := range []string{"page=abc", "page_size=x", "release_year=199x"} {
		values, _ := url.ParseQuery(raw)
		if _, err := buildListParams(values); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
