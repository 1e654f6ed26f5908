// Command seed loads a JSON fixture of directors, genres, movies, and
// ratings into the catalog database. Directors and genres have no write path
// in the API, so this is how read-mostly rows enter the system.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
)

type fixture struct {
	Directors []directorEntry `json:"directors"`
	Genres    []genreEntry    `json:"genres"`
	Movies    []movieEntry    `json:"movies"`
}

type directorEntry struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	BirthYear   *int    `json:"birth_year"`
	Description *string `json:"description"`
}

type genreEntry struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type movieEntry struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	DirectorID  int64   `json:"director_id"`
	ReleaseYear int     `json:"release_year"`
	Cast        *string `json:"cast"`
	Genres      []int64 `json:"genres"`
	Ratings     []int   `json:"ratings"`
}

func main() {
	var (
		data    = flag.String("data", "db/seed.json", "path to the seed fixture")
		timeout = flag.Duration("timeout", 30*time.Second, "overall seed timeout")
	)
	flag.Parse()

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		log.Fatal("DB_URL is required")
	}

	payload, err := os.ReadFile(*data)
	if err != nil {
		log.Fatalf("read seed fixture: %v", err)
	}
	var fx fixture
	if err := json.Unmarshal(payload, &fx); err != nil {
		log.Fatalf("parse seed fixture: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer conn.Close(context.Background())

	if err := seed(ctx, conn, fx); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("seeded %d directors, %d genres, %d movies", len(fx.Directors), len(fx.Genres), len(fx.Movies))
}

// seed loads the whole fixture in one transaction so a failed run leaves the
// database untouched.
func seed(ctx context.Context, conn *pgx.Conn, fx fixture) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, d := range fx.Directors {
		_, err := tx.Exec(ctx, `
            INSERT INTO directors (id, name, birth_year, description)
            VALUES ($1,$2,$3,$4)
            ON CONFLICT (id) DO NOTHING
        `, d.ID, d.Name, d.BirthYear, d.Description)
		if err != nil {
			return fmt.Errorf("insert director %q: %w", d.Name, err)
		}
	}

	for _, g := range fx.Genres {
		_, err := tx.Exec(ctx, `
            INSERT INTO genres (id, name, description)
            VALUES ($1,$2,$3)
            ON CONFLICT (id) DO NOTHING
        `, g.ID, g.Name, g.Description)
		if err != nil {
			return fmt.Errorf("insert genre %q: %w", g.Name, err)
		}
	}

	for _, m := range fx.Movies {
		_, err := tx.Exec(ctx, `
            INSERT INTO movies (id, title, director_id, release_year, "cast")
            VALUES ($1,$2,$3,$4,$5)
            ON CONFLICT (id) DO NOTHING
        `, m.ID, m.Title, m.DirectorID, m.ReleaseYear, m.Cast)
		if err != nil {
			return fmt.Errorf("insert movie %q: %w", m.Title, err)
		}
		for _, genreID := range m.Genres {
			_, err := tx.Exec(ctx, `
                INSERT INTO movie_genres (movie_id, genre_id)
                VALUES ($1,$2)
                ON CONFLICT DO NOTHING
            `, m.ID, genreID)
			if err != nil {
				return fmt.Errorf("link movie %q to genre %d: %w", m.Title, genreID, err)
			}
		}
		for _, score := range m.Ratings {
			_, err := tx.Exec(ctx, `
                INSERT INTO movie_ratings (movie_id, score)
                VALUES ($1,$2)
            `, m.ID, score)
			if err != nil {
				return fmt.Errorf("rate movie %q: %w", m.Title, err)
			}
		}
	}

	// Fixture rows carry explicit ids; realign the sequences so API inserts
	// do not collide.
	for _, stmt := range []string{
		`SELECT setval(pg_get_serial_sequence('directors','id'), COALESCE(MAX(id), 1)) FROM directors`,
		`SELECT setval(pg_get_serial_sequence('genres','id'), COALESCE(MAX(id), 1)) FROM genres`,
		`SELECT setval(pg_get_serial_sequence('movies','id'), COALESCE(MAX(id), 1)) FROM movies`,
	} {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("realign sequence: %w", err)
		}
	}

	return tx.Commit(ctx)
}
