package service

import (
	"context"

	"video-rental-service/internal/models"
)

// FilmService exposes catalog reads
type FilmService struct {
	store FilmStore
}

// NewFilmService creates a new film service
func NewFilmService(store FilmStore) *FilmService {
	return &FilmService{store: store}
}

func (s *FilmService) List(ctx context.Context) ([]models.Film, error) {
	return s.store.ListFilms(ctx)
}

func (s *FilmService) Get(ctx context.Context, id int64) (*models.Film, error) {
	return s.store.GetFilmByID(ctx, id)
}

func (s *FilmService) Search(ctx context.Context, title string) ([]models.Film, error) {
	return s.store.SearchFilmsByTitle(ctx, title)
}

func (s *FilmService) GetDetails(ctx context.Context, id int64) (*models.FilmDetails, error) {
	return s.store.GetFilmDetails(ctx, id)
}
