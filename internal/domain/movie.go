package domain

// Director represents a movie director. Directors are created out-of-band
// (seed data or administrative input) and are read-mostly here.
type Director struct {
	ID          int64
	Name        string
	BirthYear   *int
	Description *string
}

// Genre is a catalog genre. Names are globally unique.
type Genre struct {
	ID          int64
	Name        string
	Description *string
}

// Movie represents the canonical movie entity with its relations fully
// materialized. Director and Genres are populated by explicit joins in the
// repository layer; no field access triggers a hidden query.
type Movie struct {
	ID          int64
	Title       string
	DirectorID  int64
	ReleaseYear int
	Cast        *string
	Director    Director
	Genres      []Genre
}

// GenreNames returns the movie's genre names in association order.
func (m Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return names
}
