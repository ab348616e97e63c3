package store

import (
	"context"
	"database/sql"
	"sort"

	"video-rental-service/internal/models"
)

const baseFilmQuery = `
	SELECT id, title, description, release_year, language, rating
	FROM films`

// ListFilms retrieves the whole catalog
func (s *Store) ListFilms(ctx context.Context) ([]models.Film, error) {
	var films []models.Film
	err := s.db.SelectContext(ctx, &films, baseFilmQuery+" ORDER BY id")
	return films, err
}

// GetFilmByID retrieves a film by ID
func (s *Store) GetFilmByID(ctx context.Context, id int64) (*models.Film, error) {
	var film models.Film
	err := s.db.GetContext(ctx, &film, baseFilmQuery+" WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, models.ErrFilmNotFound
	}
	if err != nil {
		return nil, err
	}
	return &film, nil
}

// SearchFilmsByTitle retrieves films whose title matches the given text
func (s *Store) SearchFilmsByTitle(ctx context.Context, title string) ([]models.Film, error) {
	var films []models.Film
	err := s.db.SelectContext(ctx, &films,
		baseFilmQuery+" WHERE title ILIKE '%' || $1 || '%' ORDER BY title", title)
	return films, err
}

// GetFilmDetails retrieves a film with its unique actors and categories
func (s *Store) GetFilmDetails(ctx context.Context, id int64) (*models.FilmDetails, error) {
	film, err := s.GetFilmByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &models.FilmDetails{Film: *film}

	query := `
		SELECT actors.name
		FROM film_actors
		INNER JOIN actors ON film_actors.actor_id = actors.id
		WHERE film_actors.film_id = $1`
	if err := s.db.SelectContext(ctx, &details.Actors, query, id); err != nil {
		return nil, err
	}

	query = `
		SELECT categories.name
		FROM film_categories
		INNER JOIN categories ON film_categories.category_id = categories.id
		WHERE film_categories.film_id = $1`
	if err := s.db.SelectContext(ctx, &details.Categories, query, id); err != nil {
		return nil, err
	}

	sort.Strings(details.Actors)
	sort.Strings(details.Categories)
	return details, nil
}
