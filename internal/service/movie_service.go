package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"filmoteca/internal/apperr"
	"filmoteca/internal/cache"
	"filmoteca/internal/model"
	"filmoteca/internal/repository"
)

const movieCacheTTL = 5 * time.Minute

// MovieStats is the aggregate report over the catalog.
type MovieStats struct {
	Total         int            `json:"total"`
	Available     int            `json:"available"`
	Unavailable   int            `json:"unavailable"`
	GenreCounts   map[string]int `json:"genreCounts"`
	AddedThisWeek int            `json:"addedThisWeek"`
}

// MovieService handles catalog operations. Role enforcement for mutations
// happens in the HTTP layer.
type MovieService interface {
	List(ctx context.Context, filter repository.MovieFilter) ([]model.Movie, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Movie, error)
	Create(ctx context.Context, movie *model.Movie) (*model.Movie, error)
	Update(ctx context.Context, id uuid.UUID, update model.MovieUpdate) error
	Remove(ctx context.Context, id uuid.UUID) error
	ToggleAvailability(ctx context.Context, id uuid.UUID) (bool, error)
	Genres(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*MovieStats, error)
}

type movieService struct {
	repo  repository.MovieRepository
	cache *cache.Client
	now   func() time.Time
}

// NewMovieService creates a new catalog service.
func NewMovieService(repo repository.MovieRepository, cache *cache.Client) MovieService {
	return &movieService{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

func (s *movieService) List(ctx context.Context, filter repository.MovieFilter) ([]model.Movie, error) {
	movies, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

// GetByID retrieves a movie with cache-aside semantics.
func (s *movieService) GetByID(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	var cached model.Movie
	if s.cache.GetJSON(ctx, cache.MovieKey(id.String()), &cached) {
		return &cached, nil
	}

	movie, err := s.findMovie(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, cache.MovieKey(id.String()), movie, movieCacheTTL)
	return movie, nil
}

func (s *movieService) Create(ctx context.Context, movie *model.Movie) (*model.Movie, error) {
	if movie.Qualities == nil {
		movie.Qualities = []string{}
	}
	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}
	return movie, nil
}

// Update patches only the provided fields and invalidates the cache entry.
func (s *movieService) Update(ctx context.Context, id uuid.UUID, update model.MovieUpdate) error {
	movie, err := s.findMovie(ctx, id)
	if err != nil {
		return err
	}

	if update.Title != nil && *update.Title != "" {
		movie.Title = *update.Title
	}
	if update.Year != nil {
		movie.Year = *update.Year
	}
	if update.Genre != nil && *update.Genre != "" {
		movie.Genre = *update.Genre
	}
	if update.Qualities != nil {
		movie.Qualities = update.Qualities
	}
	if update.ImageURL != nil {
		movie.ImageURL = *update.ImageURL
	}
	if update.IsAvailable != nil {
		movie.IsAvailable = *update.IsAvailable
	}

	if err := s.repo.Update(ctx, movie); err != nil {
		return fmt.Errorf("update movie: %w", err)
	}
	s.cache.Delete(ctx, cache.MovieKey(id.String()))
	return nil
}

func (s *movieService) Remove(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findMovie(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	s.cache.Delete(ctx, cache.MovieKey(id.String()))
	return nil
}

// ToggleAvailability flips the availability flag and returns the new value.
func (s *movieService) ToggleAvailability(ctx context.Context, id uuid.UUID) (bool, error) {
	movie, err := s.findMovie(ctx, id)
	if err != nil {
		return false, err
	}
	movie.IsAvailable = !movie.IsAvailable
	if err := s.repo.Update(ctx, movie); err != nil {
		return false, fmt.Errorf("toggle availability: %w", err)
	}
	s.cache.Delete(ctx, cache.MovieKey(id.String()))
	return movie.IsAvailable, nil
}

// Genres returns the distinct genre values, lexicographically sorted.
func (s *movieService) Genres(ctx context.Context) ([]string, error) {
	genres, err := s.repo.Genres(ctx)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

// Stats recomputes the catalog report from a full scan on every call.
func (s *movieService) Stats(ctx context.Context) (*MovieStats, error) {
	movies, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	weekAgo := s.now().AddDate(0, 0, -7)
	stats := &MovieStats{
		Total:       len(movies),
		GenreCounts: map[string]int{},
	}
	for i := range movies {
		m := &movies[i]
		if m.IsAvailable {
			stats.Available++
		}
		stats.GenreCounts[m.Genre]++
		if m.AddedAt.After(weekAgo) {
			stats.AddedThisWeek++
		}
	}
	stats.Unavailable = stats.Total - stats.Available
	return stats, nil
}

func (s *movieService) findMovie(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrMovieNotFound
		}
		return nil, fmt.Errorf("find movie: %w", err)
	}
	return movie, nil
}
